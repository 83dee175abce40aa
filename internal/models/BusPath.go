package models

import (
	"gorm.io/gorm"
)

// BusPath is a single GPS sample reported by a bus. Samples are never
// updated after creation; CreatedAt is the ordering key.
type BusPath struct {
	gorm.Model
	BusID          uint    `json:"bus_id" gorm:"index"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Speed          float64 `json:"speed"`           // km/h
	PassengerCount int     `json:"passenger_count"`
}
