package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bustracker/internal/models"
	"bustracker/internal/repository"
	"bustracker/internal/response"
	"bustracker/internal/services"
)

type locationInput struct {
	Latitude       *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Speed          *float64 `json:"speed" binding:"omitempty,gte=0"`
	PassengerCount *int     `json:"passenger_count" binding:"omitempty,gte=0"`
}

type createBusInput struct {
	BusName      string `json:"bus_name" binding:"required,max=100"`
	DriverName   string `json:"driver_name" binding:"omitempty,max=100"`
	LicensePlate string `json:"license_plate" binding:"omitempty,max=20"`
	IsActive     *bool  `json:"is_active"`
}

type updateBusInput struct {
	BusName      *string `json:"bus_name" binding:"omitempty,max=100"`
	DriverName   *string `json:"driver_name" binding:"omitempty,max=100"`
	LicensePlate *string `json:"license_plate" binding:"omitempty,max=20"`
	IsActive     *bool   `json:"is_active"`
}

type historyQuery struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

type BusController struct {
	buses    repository.BusRepository
	tracking *services.TrackingService
}

func NewBusController(buses repository.BusRepository, tracking *services.TrackingService) *BusController {
	return &BusController{buses: buses, tracking: tracking}
}

// List returns the lightweight bus projection, no samples attached.
func (b *BusController) List(c *gin.Context) {
	buses, err := b.buses.List()
	if err != nil {
		response.ServerError(c, "Failed to retrieve bus list", err)
		return
	}
	response.OK(c, buses, "Bus list retrieved successfully")
}

func (b *BusController) Tracking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Bus not found")
		return
	}

	data, err := b.tracking.Tracking(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Bus not found")
		} else {
			response.ServerError(c, "Failed to retrieve bus tracking data", err)
		}
		return
	}

	response.OK(c, data, "Bus tracking data retrieved successfully")
}

// UpdateLocation ingests one GPS sample from a device.
func (b *BusController) UpdateLocation(c *gin.Context) {
	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Bus not found")
		return
	}

	update := services.LocationUpdate{
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}
	if input.Speed != nil {
		update.Speed = *input.Speed
	}
	if input.PassengerCount != nil {
		update.PassengerCount = *input.PassengerCount
	}

	result, err := b.tracking.UpdateLocation(id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Bus not found")
		} else {
			response.ServerError(c, "Failed to update location", err)
		}
		return
	}

	if result.Suppressed {
		response.OK(c, nil, "Bus offline or location unchanged")
		return
	}

	sample := result.Sample
	response.OK(c, gin.H{
		"id":              sample.ID,
		"bus_id":          sample.BusID,
		"latitude":        sample.Latitude,
		"longitude":       sample.Longitude,
		"speed":           sample.Speed,
		"passenger_count": sample.PassengerCount,
		"created_at":      sample.CreatedAt,
	}, "Location updated successfully")
}

// History returns every sample recorded in the requested date range.
func (b *BusController) History(c *gin.Context) {
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	start, _ := time.ParseInLocation("2006-01-02", query.StartDate, time.Local)
	end, _ := time.ParseInLocation("2006-01-02", query.EndDate, time.Local)
	if end.Before(start) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Validation error",
			"errors": map[string][]string{
				"end_date": {"The end_date must be a date after or equal to start_date."},
			},
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Bus not found")
		return
	}

	data, err := b.tracking.History(id, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Bus not found")
		} else {
			response.ServerError(c, "Failed to retrieve location history", err)
		}
		return
	}

	response.OK(c, data, "Location history retrieved successfully")
}

// Create registers a new bus; active defaults to true.
func (b *BusController) Create(c *gin.Context) {
	var input createBusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	bus := models.Bus{
		BusName:      input.BusName,
		DriverName:   input.DriverName,
		LicensePlate: input.LicensePlate,
		IsActive:     true,
	}
	if input.IsActive != nil {
		bus.IsActive = *input.IsActive
	}

	if err := b.buses.Create(&bus); err != nil {
		response.ServerError(c, "Failed to create bus", err)
		return
	}

	response.Created(c, bus, "Bus created successfully")
}

// Update applies a partial update to the mutable bus fields.
func (b *BusController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Bus not found")
		return
	}

	bus, err := b.buses.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Bus not found")
		} else {
			response.ServerError(c, "Failed to update bus", err)
		}
		return
	}

	var input updateBusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if input.BusName != nil {
		bus.BusName = *input.BusName
	}
	if input.DriverName != nil {
		bus.DriverName = *input.DriverName
	}
	if input.LicensePlate != nil {
		bus.LicensePlate = *input.LicensePlate
	}
	if input.IsActive != nil {
		bus.IsActive = *input.IsActive
	}

	if err := b.buses.Save(bus); err != nil {
		response.ServerError(c, "Failed to update bus", err)
		return
	}

	response.OK(c, bus, "Bus updated successfully")
}
