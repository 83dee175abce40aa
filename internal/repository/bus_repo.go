package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"bustracker/internal/models"
)

// BusSummary is the lightweight projection used by the bus list.
type BusSummary struct {
	ID           uint   `json:"id"`
	BusName      string `json:"bus_name"`
	DriverName   string `json:"driver_name"`
	LicensePlate string `json:"license_plate"`
	IsActive     bool   `json:"is_active"`
}

// BusRepository covers buses and their position samples. Path queries
// treat CreatedAt as the ordering key; samples are append-only.
type BusRepository interface {
	List() ([]BusSummary, error)
	FindByID(id uint) (*models.Bus, error)
	Create(bus *models.Bus) error
	Save(bus *models.Bus) error

	// LastPath returns the most recent sample regardless of date, or
	// (nil, nil) when the bus has none.
	LastPath(busID uint) (*models.BusPath, error)
	// LatestPathBetween returns the most recent sample with
	// start <= CreatedAt < end, or (nil, nil) when there is none.
	LatestPathBetween(busID uint, start, end time.Time) (*models.BusPath, error)
	// PathsBetween returns samples with start <= CreatedAt < end in
	// ascending creation order.
	PathsBetween(busID uint, start, end time.Time) ([]models.BusPath, error)
	InsertPath(path *models.BusPath) error
}

type gormBusRepository struct {
	db *gorm.DB
}

func NewBusRepository(db *gorm.DB) BusRepository {
	return &gormBusRepository{db: db}
}

func (r *gormBusRepository) List() ([]BusSummary, error) {
	var buses []BusSummary
	err := r.db.Model(&models.Bus{}).
		Select("id", "bus_name", "driver_name", "license_plate", "is_active").
		Order("bus_name").
		Find(&buses).Error
	return buses, err
}

func (r *gormBusRepository) FindByID(id uint) (*models.Bus, error) {
	var bus models.Bus
	if err := r.db.First(&bus, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bus, nil
}

func (r *gormBusRepository) Create(bus *models.Bus) error {
	return r.db.Create(bus).Error
}

func (r *gormBusRepository) Save(bus *models.Bus) error {
	return r.db.Save(bus).Error
}

func (r *gormBusRepository) LastPath(busID uint) (*models.BusPath, error) {
	var path models.BusPath
	err := r.db.Where("bus_id = ?", busID).
		Order("created_at DESC").
		First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (r *gormBusRepository) LatestPathBetween(busID uint, start, end time.Time) (*models.BusPath, error) {
	var path models.BusPath
	err := r.db.Where("bus_id = ? AND created_at >= ? AND created_at < ?", busID, start, end).
		Order("created_at DESC").
		First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (r *gormBusRepository) PathsBetween(busID uint, start, end time.Time) ([]models.BusPath, error) {
	var paths []models.BusPath
	err := r.db.Where("bus_id = ? AND created_at >= ? AND created_at < ?", busID, start, end).
		Order("created_at ASC").
		Find(&paths).Error
	return paths, err
}

func (r *gormBusRepository) InsertPath(path *models.BusPath) error {
	return r.db.Create(path).Error
}
