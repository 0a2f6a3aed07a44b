package domain

import "time"

// Delivery is the companion record created when a validated order is
// assigned to a station. Created atomically with the order transition to
// IN_PROGRESS.
type Delivery struct {
	ID        string
	OrderID   string
	StationID string
	// ScheduledAt is the planned delivery date.
	ScheduledAt time.Time
	// DriverNumber and DeliveredQty are filled in by depot staff later.
	DriverNumber string
	DeliveredQty int32
	CreatedAt    time.Time
}
