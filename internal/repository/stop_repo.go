package repository

import (
	"errors"

	"gorm.io/gorm"

	"bustracker/internal/models"
)

type StopRepository interface {
	List() ([]models.BusStop, error)
	FindByID(id uint) (*models.BusStop, error)
	Create(stop *models.BusStop) error
	Save(stop *models.BusStop) error
	Delete(stop *models.BusStop) error
}

type gormStopRepository struct {
	db *gorm.DB
}

func NewStopRepository(db *gorm.DB) StopRepository {
	return &gormStopRepository{db: db}
}

func (r *gormStopRepository) List() ([]models.BusStop, error) {
	var stops []models.BusStop
	err := r.db.Order("name").Find(&stops).Error
	return stops, err
}

func (r *gormStopRepository) FindByID(id uint) (*models.BusStop, error) {
	var stop models.BusStop
	if err := r.db.First(&stop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stop, nil
}

func (r *gormStopRepository) Create(stop *models.BusStop) error {
	return r.db.Create(stop).Error
}

func (r *gormStopRepository) Save(stop *models.BusStop) error {
	return r.db.Save(stop).Error
}

func (r *gormStopRepository) Delete(stop *models.BusStop) error {
	return r.db.Delete(stop).Error
}
