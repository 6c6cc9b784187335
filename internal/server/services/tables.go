// Package services contains server-side business logic. Each entity service
// validates input, applies lifecycle rules, persists through a repository,
// and invalidates the table fingerprint exactly once per successful mutation.
package services

// Table identifiers used by the coherency protocol. These are the names
// clients send to the verify endpoint, so they must stay stable.
const (
	TableUsers     = "users"
	TableDrivers   = "drivers"
	TableVehicles  = "vehicles"
	TableCustomers = "customers"
	TableOrders    = "orders"
)
