package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
)

// stubLocationRepo records calls and returns canned values.
type stubLocationRepo struct {
	created   []*entities.Location
	updated   []*entities.Location
	deleted   []int64
	byID      map[int64]*entities.Location
	createErr error
	deleteErr error
}

func (s *stubLocationRepo) Create(_ context.Context, location *entities.Location) error {
	if s.createErr != nil {
		return s.createErr
	}
	location.ID = int64(len(s.created) + 1)
	s.created = append(s.created, location)
	return nil
}

func (s *stubLocationRepo) GetByID(_ context.Context, id int64) (*entities.Location, error) {
	return s.byID[id], nil
}

func (s *stubLocationRepo) GetDetail(_ context.Context, id int64) (*entities.LocationDetail, error) {
	if loc := s.byID[id]; loc != nil {
		return &entities.LocationDetail{Location: *loc}, nil
	}
	return nil, nil
}

func (s *stubLocationRepo) Update(_ context.Context, location *entities.Location) error {
	s.updated = append(s.updated, location)
	return nil
}

func (s *stubLocationRepo) Delete(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubLocationRepo) List(_ context.Context, _ repositories.LocationFilter) ([]*entities.LocationSummary, error) {
	return nil, nil
}

// stubVisitRepo records calls and returns canned values.
type stubVisitRepo struct {
	created     []*entities.Visit
	withPhotos  [][]*entities.VisitPhoto
	listFilters []repositories.VisitFilter
	listResult  []*entities.VisitWithLocation
	createErr   error
	txErr       error
}

func (s *stubVisitRepo) Create(_ context.Context, visit *entities.Visit) error {
	if s.createErr != nil {
		return s.createErr
	}
	visit.ID = int64(len(s.created) + 1)
	s.created = append(s.created, visit)
	return nil
}

func (s *stubVisitRepo) CreateWithPhotos(_ context.Context, visit *entities.Visit, photos []*entities.VisitPhoto) error {
	if s.txErr != nil {
		return s.txErr
	}
	visit.ID = int64(len(s.created) + 1)
	s.created = append(s.created, visit)
	s.withPhotos = append(s.withPhotos, photos)
	return nil
}

func (s *stubVisitRepo) GetByID(_ context.Context, _ int64) (*entities.Visit, error) {
	return nil, nil
}

func (s *stubVisitRepo) Update(_ context.Context, _ *entities.Visit) error { return nil }

func (s *stubVisitRepo) Delete(_ context.Context, _ int64) error { return nil }

func (s *stubVisitRepo) List(_ context.Context, filter repositories.VisitFilter) ([]*entities.VisitWithLocation, error) {
	s.listFilters = append(s.listFilters, filter)
	return s.listResult, nil
}

// stubEventBus collects published events.
type stubEventBus struct {
	mu     sync.Mutex
	events []*entities.ChangeEvent
	ch     chan *entities.ChangeEvent
}

func newStubEventBus() *stubEventBus {
	return &stubEventBus{ch: make(chan *entities.ChangeEvent, 16)}
}

func (s *stubEventBus) Publish(_ context.Context, _ string, event *entities.ChangeEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	select {
	case s.ch <- event:
	default:
	}
	return nil
}

func (s *stubEventBus) Subscribe(_ context.Context, _ string) (<-chan *entities.ChangeEvent, error) {
	return s.ch, nil
}

func (s *stubEventBus) Unsubscribe(_ context.Context, _ string) error { return nil }

func (s *stubEventBus) Close() error { return nil }

func (s *stubEventBus) published() []*entities.ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.ChangeEvent, len(s.events))
	copy(out, s.events)
	return out
}

// stubCache tracks deleted prefixes.
type stubCache struct {
	mu              sync.Mutex
	deletedPrefixes []string
}

func (s *stubCache) Get(_ context.Context, _ string) ([]byte, error) { return nil, nil }

func (s *stubCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }

func (s *stubCache) Delete(_ context.Context, _ string) error { return nil }

func (s *stubCache) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	return nil
}

func (s *stubCache) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (s *stubCache) prefixes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deletedPrefixes))
	copy(out, s.deletedPrefixes)
	return out
}

// stubFileStore stores saved payloads in memory.
type stubFileStore struct {
	saved   map[string][]byte
	saveErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{saved: map[string][]byte{}}
}

func (s *stubFileStore) Save(_ context.Context, name string, data []byte) (*providers.StoredFile, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved[name] = data
	return &providers.StoredFile{
		FileName: name,
		FilePath: "content/uploads/" + name,
		Size:     len(data),
	}, nil
}
