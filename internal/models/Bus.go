// internal/models/bus.go
package models

import (
	"gorm.io/gorm"
)

type Bus struct {
	gorm.Model
	BusName      string `json:"bus_name"`
	DriverName   string `json:"driver_name"`
	LicensePlate string `json:"license_plate"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Paths is the append-only GPS log; deleting a bus cascades its samples
	Paths []BusPath `gorm:"foreignKey:BusID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"paths,omitempty"`
}
