package models

// User is a login credential record. It carries the same audit columns as
// every other entity; PasswordHash never leaves the server.
type User struct {
	AuditFields

	UserName     string `json:"userName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
