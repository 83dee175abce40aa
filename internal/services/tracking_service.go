package services

import (
	"time"

	"bustracker/internal/metrics"
	"bustracker/internal/models"
	"bustracker/internal/repository"
	"bustracker/internal/telemetry"
)

// PathPoint is the reduced projection used in tracking payloads.
type PathPoint struct {
	Lat            float64 `json:"lat"`
	Long           float64 `json:"long"`
	Speed          float64 `json:"speed"`
	PassengerCount int     `json:"passenger_count"`
}

// Position is a path point plus the time it was recorded.
type Position struct {
	PathPoint
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackingData is the aggregated view for one bus, scoped to the current
// server-local calendar day.
type TrackingData struct {
	ID              uint        `json:"id"`
	BusName         string      `json:"bus_name"`
	DriverName      string      `json:"driver_name"`
	LicensePlate    string      `json:"license_plate"`
	IsActive        bool        `json:"is_active"`
	CurrentPosition *Position   `json:"current_position"`
	PathTravelled   []PathPoint `json:"path_travelled"`
}

// LocationUpdate is a validated candidate sample from a GPS device.
type LocationUpdate struct {
	Latitude       float64
	Longitude      float64
	Speed          float64
	PassengerCount int
}

// LocationResult reports whether the candidate was persisted. Sample is
// set only when Suppressed is false.
type LocationResult struct {
	Suppressed bool
	Sample     *models.BusPath
}

type HistoryPoint struct {
	Lat            float64   `json:"lat"`
	Long           float64   `json:"long"`
	Speed          float64   `json:"speed"`
	PassengerCount int       `json:"passenger_count"`
	Timestamp      time.Time `json:"timestamp"`
}

type HistoryData struct {
	BusID       uint           `json:"bus_id"`
	BusName     string         `json:"bus_name"`
	Locations   []HistoryPoint `json:"locations"`
	TotalPoints int            `json:"total_points"`
}

// TrackingService derives tracking state from the append-only sample log
// and decides which incoming samples are worth persisting.
type TrackingService struct {
	buses     repository.BusRepository
	publisher telemetry.Publisher
	now       func() time.Time
}

func NewTrackingService(buses repository.BusRepository, publisher telemetry.Publisher) *TrackingService {
	return &TrackingService{
		buses:     buses,
		publisher: publisher,
		now:       time.Now,
	}
}

// UpdateLocation applies the ingestion gate: an inactive bus, or a sample
// whose coordinates match the most recent one on record (any date), is
// accepted but not persisted. There is deliberately no locking around the
// read-decide-write sequence; concurrent pings for one bus may race, which
// is acceptable for a best-effort GPS feed.
func (s *TrackingService) UpdateLocation(busID uint, in LocationUpdate) (*LocationResult, error) {
	bus, err := s.buses.FindByID(busID)
	if err != nil {
		return nil, err
	}

	last, err := s.buses.LastPath(busID)
	if err != nil {
		return nil, err
	}

	if !bus.IsActive || (last != nil && last.Latitude == in.Latitude && last.Longitude == in.Longitude) {
		metrics.LocationUpdates.WithLabelValues("suppressed").Inc()
		return &LocationResult{Suppressed: true}, nil
	}

	path := &models.BusPath{
		BusID:          bus.ID,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Speed:          in.Speed,
		PassengerCount: in.PassengerCount,
	}
	if err := s.buses.InsertPath(path); err != nil {
		return nil, err
	}

	// Reactivate on an accepted ping. The gate above keeps inactive buses
	// off this path, so this only fires if the flag flipped mid-request;
	// reactivation normally happens through the bus update endpoint.
	if !bus.IsActive {
		bus.IsActive = true
		if err := s.buses.Save(bus); err != nil {
			return nil, err
		}
	}

	metrics.LocationUpdates.WithLabelValues("accepted").Inc()
	s.publisher.PublishSample(*path)

	return &LocationResult{Sample: path}, nil
}

// Tracking returns bus metadata plus the derived current position and the
// path travelled today.
func (s *TrackingService) Tracking(busID uint) (*TrackingData, error) {
	bus, err := s.buses.FindByID(busID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := dayBounds(s.now())

	current, err := s.buses.LatestPathBetween(busID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	paths, err := s.buses.PathsBetween(busID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	data := &TrackingData{
		ID:            bus.ID,
		BusName:       bus.BusName,
		DriverName:    bus.DriverName,
		LicensePlate:  bus.LicensePlate,
		IsActive:      bus.IsActive,
		PathTravelled: make([]PathPoint, 0, len(paths)),
	}

	for _, p := range paths {
		data.PathTravelled = append(data.PathTravelled, toPathPoint(p))
	}

	if current != nil {
		data.CurrentPosition = &Position{
			PathPoint: toPathPoint(*current),
			UpdatedAt: current.CreatedAt,
		}

		// The two queries above run independently; if a sample landed
		// between them, the path may not contain the newest point yet.
		n := len(data.PathTravelled)
		if n == 0 ||
			data.PathTravelled[n-1].Lat != data.CurrentPosition.Lat ||
			data.PathTravelled[n-1].Long != data.CurrentPosition.Long {
			data.PathTravelled = append(data.PathTravelled, data.CurrentPosition.PathPoint)
		}
	}

	return data, nil
}

// History returns the ordered samples recorded between the start and end
// dates, both inclusive of the full day.
func (s *TrackingService) History(busID uint, startDate, endDate time.Time) (*HistoryData, error) {
	bus, err := s.buses.FindByID(busID)
	if err != nil {
		return nil, err
	}

	paths, err := s.buses.PathsBetween(busID, startDate, endDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	data := &HistoryData{
		BusID:       bus.ID,
		BusName:     bus.BusName,
		Locations:   make([]HistoryPoint, 0, len(paths)),
		TotalPoints: len(paths),
	}
	for _, p := range paths {
		data.Locations = append(data.Locations, HistoryPoint{
			Lat:            p.Latitude,
			Long:           p.Longitude,
			Speed:          p.Speed,
			PassengerCount: p.PassengerCount,
			Timestamp:      p.CreatedAt,
		})
	}
	return data, nil
}

func toPathPoint(p models.BusPath) PathPoint {
	return PathPoint{
		Lat:            p.Latitude,
		Long:           p.Longitude,
		Speed:          p.Speed,
		PassengerCount: p.PassengerCount,
	}
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
