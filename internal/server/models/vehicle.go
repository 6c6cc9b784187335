package models

type Vehicle struct {
	AuditFields

	Plate    string `json:"plate"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	DriverID *int64 `json:"driverId"`
}
