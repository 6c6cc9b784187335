package models

import "time"

type Order struct {
	AuditFields

	CustomerID  int64     `json:"customerId"`
	PickupAddr  string    `json:"pickupAddr"`
	DropoffAddr string    `json:"dropoffAddr"`
	Date        time.Time `json:"date"`
	DistanceKm  float64   `json:"distanceKm"`
	Price       float64   `json:"price"`
}
