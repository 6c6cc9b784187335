package models

type Driver struct {
	AuditFields

	Forename  string `json:"forename"`
	Surname   string `json:"surname"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"licenseNo"`
}
