package domain

import "time"

// Station is a fuel station served by the distributor.
type Station struct {
	ID      string
	Name    string
	Address string
	// ManagerID references the GERANT user running the station.
	ManagerID string
	CreatedAt time.Time
}
