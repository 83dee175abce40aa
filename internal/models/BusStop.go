package models

import (
	"gorm.io/gorm"
)

// BusStop is a named boarding point. Independent of buses for now; a
// stop-assignment relation is planned but not wired anywhere yet.
type BusStop struct {
	gorm.Model
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
