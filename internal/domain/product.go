package domain

import "time"

// Product is a fuel or shop product sold to station managers.
type Product struct {
	ID   string
	Name string
	// UnitPrice is the current catalog price per unit in millimes.
	UnitPrice int64
	// Quantity is the available stock. It is decremented by order placement
	// and must never go negative.
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt time.Time
}
