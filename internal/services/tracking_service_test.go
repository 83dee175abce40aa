package services

import (
	"errors"
	"sort"
	"testing"
	"time"

	"gorm.io/gorm"

	"bustracker/internal/models"
	"bustracker/internal/repository"
)

type fakeBusRepo struct {
	buses     map[uint]*models.Bus
	paths     []models.BusPath
	nextID    uint
	saveCalls int
	failWith  error
}

func newFakeBusRepo(buses ...*models.Bus) *fakeBusRepo {
	r := &fakeBusRepo{buses: map[uint]*models.Bus{}, nextID: 1}
	for _, b := range buses {
		r.buses[b.ID] = b
	}
	return r
}

func (r *fakeBusRepo) List() ([]repository.BusSummary, error) {
	var out []repository.BusSummary
	for _, b := range r.buses {
		out = append(out, repository.BusSummary{ID: b.ID, BusName: b.BusName})
	}
	return out, nil
}

func (r *fakeBusRepo) FindByID(id uint) (*models.Bus, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	b, ok := r.buses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBusRepo) Create(bus *models.Bus) error {
	r.buses[bus.ID] = bus
	return nil
}

func (r *fakeBusRepo) Save(bus *models.Bus) error {
	r.saveCalls++
	r.buses[bus.ID] = bus
	return nil
}

func (r *fakeBusRepo) LastPath(busID uint) (*models.BusPath, error) {
	var last *models.BusPath
	for i := range r.paths {
		p := &r.paths[i]
		if p.BusID != busID {
			continue
		}
		if last == nil || p.CreatedAt.After(last.CreatedAt) {
			last = p
		}
	}
	return last, nil
}

func (r *fakeBusRepo) LatestPathBetween(busID uint, start, end time.Time) (*models.BusPath, error) {
	var last *models.BusPath
	for i := range r.paths {
		p := &r.paths[i]
		if p.BusID != busID || p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		if last == nil || p.CreatedAt.After(last.CreatedAt) {
			last = p
		}
	}
	return last, nil
}

func (r *fakeBusRepo) PathsBetween(busID uint, start, end time.Time) ([]models.BusPath, error) {
	var out []models.BusPath
	for _, p := range r.paths {
		if p.BusID == busID && !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBusRepo) InsertPath(path *models.BusPath) error {
	path.ID = r.nextID
	r.nextID++
	if path.CreatedAt.IsZero() {
		path.CreatedAt = time.Now()
	}
	r.paths = append(r.paths, *path)
	return nil
}

func (r *fakeBusRepo) countFor(busID uint) int {
	n := 0
	for _, p := range r.paths {
		if p.BusID == busID {
			n++
		}
	}
	return n
}

func (r *fakeBusRepo) seed(busID uint, lat, long, speed float64, passengers int, at time.Time) {
	r.paths = append(r.paths, models.BusPath{
		Model:          gorm.Model{ID: r.nextID, CreatedAt: at},
		BusID:          busID,
		Latitude:       lat,
		Longitude:      long,
		Speed:          speed,
		PassengerCount: passengers,
	})
	r.nextID++
}

type fakePublisher struct {
	published []models.BusPath
}

func (p *fakePublisher) PublishSample(sample models.BusPath) {
	p.published = append(p.published, sample)
}

func (p *fakePublisher) Close() error { return nil }

func newTestService(repo *fakeBusRepo, pub *fakePublisher, now time.Time) *TrackingService {
	return &TrackingService{
		buses:     repo,
		publisher: pub,
		now:       func() time.Time { return now },
	}
}

func TestUpdateLocationGate(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.Local)

	cases := []struct {
		name           string
		active         bool
		seed           func(r *fakeBusRepo)
		in             LocationUpdate
		wantSuppressed bool
		wantCount      int
	}{
		{
			name:           "inactive bus is suppressed",
			active:         false,
			in:             LocationUpdate{Latitude: 10, Longitude: 20},
			wantSuppressed: true,
			wantCount:      0,
		},
		{
			name:   "unchanged coordinates are suppressed",
			active: true,
			seed: func(r *fakeBusRepo) {
				r.seed(1, 10, 20, 15, 3, now.Add(-time.Hour))
			},
			in:             LocationUpdate{Latitude: 10, Longitude: 20, Speed: 40},
			wantSuppressed: true,
			wantCount:      1,
		},
		{
			name:   "yesterday's identical point still suppresses",
			active: true,
			seed: func(r *fakeBusRepo) {
				r.seed(1, 10, 20, 15, 3, now.AddDate(0, 0, -1))
			},
			in:             LocationUpdate{Latitude: 10, Longitude: 20},
			wantSuppressed: true,
			wantCount:      1,
		},
		{
			name:      "first sample for an active bus is persisted",
			active:    true,
			in:        LocationUpdate{Latitude: 14.6, Longitude: 121.0, Speed: 30, PassengerCount: 5},
			wantCount: 1,
		},
		{
			name:   "moved bus gets a new sample",
			active: true,
			seed: func(r *fakeBusRepo) {
				r.seed(1, 10, 20, 15, 3, now.Add(-time.Minute))
			},
			in:        LocationUpdate{Latitude: 10.001, Longitude: 20, Speed: 22},
			wantCount: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBusRepo(&models.Bus{
				Model:    gorm.Model{ID: 1},
				BusName:  "Bus 1",
				IsActive: tc.active,
			})
			if tc.seed != nil {
				tc.seed(repo)
			}
			pub := &fakePublisher{}
			svc := newTestService(repo, pub, now)

			result, err := svc.UpdateLocation(1, tc.in)
			if err != nil {
				t.Fatalf("UpdateLocation() error = %v", err)
			}
			if result.Suppressed != tc.wantSuppressed {
				t.Errorf("Suppressed = %v, want %v", result.Suppressed, tc.wantSuppressed)
			}
			if got := repo.countFor(1); got != tc.wantCount {
				t.Errorf("sample count = %d, want %d", got, tc.wantCount)
			}

			if tc.wantSuppressed {
				if len(pub.published) != 0 {
					t.Errorf("suppressed update published %d samples", len(pub.published))
				}
				return
			}

			if result.Sample == nil {
				t.Fatal("accepted update returned nil sample")
			}
			if result.Sample.Latitude != tc.in.Latitude || result.Sample.Longitude != tc.in.Longitude {
				t.Errorf("sample coords = (%v,%v), want (%v,%v)",
					result.Sample.Latitude, result.Sample.Longitude, tc.in.Latitude, tc.in.Longitude)
			}
			if result.Sample.Speed != tc.in.Speed || result.Sample.PassengerCount != tc.in.PassengerCount {
				t.Errorf("sample extras = (%v,%v), want (%v,%v)",
					result.Sample.Speed, result.Sample.PassengerCount, tc.in.Speed, tc.in.PassengerCount)
			}
			if result.Sample.CreatedAt.IsZero() {
				t.Error("accepted sample has zero CreatedAt")
			}
			if len(pub.published) != 1 {
				t.Errorf("published %d samples, want 1", len(pub.published))
			}
		})
	}
}

func TestUpdateLocationIdempotent(t *testing.T) {
	now := time.Now()
	repo := newFakeBusRepo(&models.Bus{Model: gorm.Model{ID: 1}, IsActive: true})
	svc := newTestService(repo, &fakePublisher{}, now)

	in := LocationUpdate{Latitude: 14.6, Longitude: 121.0}
	for i := 0; i < 5; i++ {
		if _, err := svc.UpdateLocation(1, in); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if got := repo.countFor(1); got != 1 {
		t.Errorf("sample count after repeated identical pings = %d, want 1", got)
	}
}

func TestUpdateLocationUnknownBus(t *testing.T) {
	repo := newFakeBusRepo()
	svc := newTestService(repo, &fakePublisher{}, time.Now())

	_, err := svc.UpdateLocation(99, LocationUpdate{Latitude: 1, Longitude: 2})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if got := repo.countFor(99); got != 0 {
		t.Errorf("sample count = %d, want 0", got)
	}
}

func TestUpdateLocationDoesNotToggleActiveFlag(t *testing.T) {
	now := time.Now()
	repo := newFakeBusRepo(&models.Bus{Model: gorm.Model{ID: 1}, IsActive: true})
	svc := newTestService(repo, &fakePublisher{}, now)

	if _, err := svc.UpdateLocation(1, LocationUpdate{Latitude: 14.6, Longitude: 121.0}); err != nil {
		t.Fatal(err)
	}
	if !repo.buses[1].IsActive {
		t.Error("bus flipped inactive")
	}
	if repo.saveCalls != 0 {
		t.Errorf("Save called %d times for an already-active bus, want 0", repo.saveCalls)
	}
}

func TestTrackingAggregation(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 14, h, m, 0, 0, time.Local)
	}

	repo := newFakeBusRepo(&models.Bus{
		Model:        gorm.Model{ID: 7},
		BusName:      "Route 7",
		DriverName:   "Dela Cruz",
		LicensePlate: "ABC-123",
		IsActive:     true,
	})
	// Yesterday's sample must not appear anywhere in today's view.
	repo.seed(7, 1, 1, 10, 2, now.AddDate(0, 0, -1))
	repo.seed(7, 14.60, 121.00, 20, 4, day(8, 0))
	repo.seed(7, 14.61, 121.01, 25, 6, day(9, 0))
	repo.seed(7, 14.62, 121.02, 30, 8, day(10, 0))

	svc := newTestService(repo, &fakePublisher{}, now)

	data, err := svc.Tracking(7)
	if err != nil {
		t.Fatalf("Tracking() error = %v", err)
	}

	if data.BusName != "Route 7" || data.LicensePlate != "ABC-123" || !data.IsActive {
		t.Errorf("bus metadata mismatch: %+v", data)
	}
	if data.CurrentPosition == nil {
		t.Fatal("current_position is nil")
	}
	if data.CurrentPosition.Lat != 14.62 || data.CurrentPosition.Long != 121.02 {
		t.Errorf("current_position = (%v,%v), want (14.62,121.02)",
			data.CurrentPosition.Lat, data.CurrentPosition.Long)
	}
	if !data.CurrentPosition.UpdatedAt.Equal(day(10, 0)) {
		t.Errorf("current_position.updated_at = %v, want %v", data.CurrentPosition.UpdatedAt, day(10, 0))
	}

	if len(data.PathTravelled) != 3 {
		t.Fatalf("path has %d points, want 3", len(data.PathTravelled))
	}
	if data.PathTravelled[0].Lat != 14.60 {
		t.Errorf("path not ordered ascending: first = %+v", data.PathTravelled[0])
	}
	last := data.PathTravelled[len(data.PathTravelled)-1]
	if last.Lat != data.CurrentPosition.Lat || last.Long != data.CurrentPosition.Long {
		t.Errorf("path tail (%v,%v) != current_position (%v,%v)",
			last.Lat, last.Long, data.CurrentPosition.Lat, data.CurrentPosition.Long)
	}
}

func TestTrackingAppendsMissingCurrentPosition(t *testing.T) {
	// Simulate a sample landing between the two aggregation queries: the
	// fake returns a newer "latest" than anything in the path listing.
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	repo := newFakeBusRepo(&models.Bus{Model: gorm.Model{ID: 1}, BusName: "B", IsActive: true})
	repo.seed(1, 10, 20, 0, 0, now.Add(-2*time.Hour))

	svc := newTestService(repo, &fakePublisher{}, now)
	svc.buses = &racingBusRepo{fakeBusRepo: repo, extra: models.BusPath{
		Model: gorm.Model{CreatedAt: now.Add(-time.Minute)}, BusID: 1, Latitude: 11, Longitude: 21,
	}}

	data, err := svc.Tracking(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.PathTravelled) != 2 {
		t.Fatalf("path has %d points, want 2 (racing point appended)", len(data.PathTravelled))
	}
	tail := data.PathTravelled[1]
	if tail.Lat != 11 || tail.Long != 21 {
		t.Errorf("appended tail = (%v,%v), want (11,21)", tail.Lat, tail.Long)
	}
}

// racingBusRepo reports a fresher latest sample than the path listing
// contains, mimicking a write between the two reads.
type racingBusRepo struct {
	*fakeBusRepo
	extra models.BusPath
}

func (r *racingBusRepo) LatestPathBetween(busID uint, start, end time.Time) (*models.BusPath, error) {
	return &r.extra, nil
}

func TestTrackingNoSamplesToday(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	repo := newFakeBusRepo(&models.Bus{Model: gorm.Model{ID: 1}, BusName: "B", IsActive: true})
	repo.seed(1, 10, 20, 0, 0, now.AddDate(0, 0, -3))

	svc := newTestService(repo, &fakePublisher{}, now)
	data, err := svc.Tracking(1)
	if err != nil {
		t.Fatal(err)
	}
	if data.CurrentPosition != nil {
		t.Errorf("current_position = %+v, want nil", data.CurrentPosition)
	}
	if len(data.PathTravelled) != 0 {
		t.Errorf("path has %d points, want 0", len(data.PathTravelled))
	}
}

func TestTrackingUnknownBus(t *testing.T) {
	svc := newTestService(newFakeBusRepo(), &fakePublisher{}, time.Now())
	if _, err := svc.Tracking(42); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHistoryRange(t *testing.T) {
	repo := newFakeBusRepo(&models.Bus{Model: gorm.Model{ID: 3}, BusName: "B3"})
	at := func(day, hour int) time.Time {
		return time.Date(2026, 3, day, hour, 0, 0, 0, time.Local)
	}
	repo.seed(3, 1, 1, 0, 0, at(9, 12))  // before range
	repo.seed(3, 2, 2, 0, 0, at(10, 8))  // in range
	repo.seed(3, 3, 3, 0, 0, at(11, 23)) // in range, end day inclusive
	repo.seed(3, 4, 4, 0, 0, at(12, 1))  // after range

	svc := newTestService(repo, &fakePublisher{}, time.Now())

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)
	data, err := svc.History(3, start, end)
	if err != nil {
		t.Fatal(err)
	}

	if data.TotalPoints != 2 || len(data.Locations) != 2 {
		t.Fatalf("got %d points, want 2", len(data.Locations))
	}
	if data.Locations[0].Lat != 2 || data.Locations[1].Lat != 3 {
		t.Errorf("locations out of order or wrong: %+v", data.Locations)
	}
	if data.BusName != "B3" {
		t.Errorf("bus_name = %q, want B3", data.BusName)
	}
}
