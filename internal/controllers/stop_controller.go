package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bustracker/internal/models"
	"bustracker/internal/repository"
	"bustracker/internal/response"
)

type createStopInput struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type updateStopInput struct {
	Name      *string  `json:"name" binding:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type StopController struct {
	stops repository.StopRepository
}

func NewStopController(stops repository.StopRepository) *StopController {
	return &StopController{stops: stops}
}

func (s *StopController) List(c *gin.Context) {
	stops, err := s.stops.List()
	if err != nil {
		response.ServerError(c, "Failed to retrieve stops", err)
		return
	}
	response.OK(c, stops, "Stops retrieved successfully")
}

func (s *StopController) Create(c *gin.Context) {
	var input createStopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	stop := models.BusStop{
		Name:      input.Name,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}
	if err := s.stops.Create(&stop); err != nil {
		response.ServerError(c, "Failed to create stop", err)
		return
	}

	response.Created(c, stop, "Stop created successfully")
}

func (s *StopController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Stop not found")
		return
	}

	stop, err := s.stops.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Stop not found")
		} else {
			response.ServerError(c, "Failed to update stop", err)
		}
		return
	}

	var input updateStopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if input.Name != nil {
		stop.Name = *input.Name
	}
	if input.Latitude != nil {
		stop.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		stop.Longitude = *input.Longitude
	}

	if err := s.stops.Save(stop); err != nil {
		response.ServerError(c, "Failed to update stop", err)
		return
	}

	response.OK(c, stop, "Stop updated successfully")
}

func (s *StopController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Stop not found")
		return
	}

	stop, err := s.stops.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Stop not found")
		} else {
			response.ServerError(c, "Failed to delete stop", err)
		}
		return
	}

	if err := s.stops.Delete(stop); err != nil {
		response.ServerError(c, "Failed to delete stop", err)
		return
	}

	response.OK(c, nil, "Stop deleted successfully")
}
