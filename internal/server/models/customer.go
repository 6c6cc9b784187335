package models

type Customer struct {
	AuditFields

	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
