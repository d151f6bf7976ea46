package favourites

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/mmcdole/photodeck/internal/bus"
	"github.com/mmcdole/photodeck/internal/domain"
)

// EventType is the kind of a favourites event
type EventType string

const (
	// EventAdd carries the full domain.Photo
	EventAdd EventType = "add"
	// EventRemove carries the photo id as a string
	EventRemove EventType = "remove"
)

// Bus is the event bus favourites changes travel on
type Bus = bus.Bus[EventType, any]

// NewBus creates an empty favourites bus
func NewBus() *Bus {
	return bus.New[EventType, any]()
}

// Renderer is a view that depends on the collection
type Renderer interface {
	RenderFavourites(photos []domain.Photo)
	FavouritesFailed(err error)
}

// Service owns the persistence subscriber on the bus
type Service struct {
	repo   *Repository
	bus    *Bus
	logger *slog.Logger

	mu sync.Mutex // Serializes read-modify-write of the collection

	renderMu  sync.Mutex
	renderers []Renderer

	unsubscribe func()
}

// NewService subscribes the persistence handler to b
func NewService(repo *Repository, b *Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, bus: b, logger: logger}
	s.unsubscribe = b.Subscribe(s.handle)
	return s
}

// Close detaches the service from the bus
func (s *Service) Close() {
	s.unsubscribe()
}

// AddRenderer registers r for every re-render and returns a function that
// removes it
func (s *Service) AddRenderer(r Renderer) (remove func()) {
	s.renderMu.Lock()
	s.renderers = append(s.renderers, r)
	s.renderMu.Unlock()

	return func() {
		s.renderMu.Lock()
		defer s.renderMu.Unlock()
		if i := slices.Index(s.renderers, r); i >= 0 {
			s.renderers = slices.Delete(s.renderers, i, i+1)
		}
	}
}

// Add emits an add event for photo
func (s *Service) Add(photo domain.Photo) {
	s.bus.Emit(EventAdd, photo)
}

// Remove emits a remove event for the photo id as carried by a node attribute
func (s *Service) Remove(id string) {
	s.bus.Emit(EventRemove, id)
}

// List returns the persisted collection
func (s *Service) List() ([]domain.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load()
}

// Render re-reads the collection and renders it to every registered view
func (s *Service) Render() {
	photos, err := s.List()
	if err != nil {
		s.fail(err)
		return
	}
	s.render(photos)
}

func (s *Service) handle(kind EventType, payload any) {
	photos, err := s.apply(kind, payload)
	if err != nil {
		s.fail(err)
		return
	}
	s.render(photos)
}

// apply folds one event into the persisted collection
func (s *Service) apply(kind EventType, payload any) ([]domain.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos, err := s.repo.Load()
	if err != nil {
		return nil, err
	}

	switch kind {
	case EventAdd:
		photo, ok := photoPayload(payload)
		if !ok {
			return nil, fmt.Errorf("add favourite: unexpected payload %T", payload)
		}
		photos = append(photos, photo)
		s.logger.Debug("favourite added", "id", photo.ID)

	case EventRemove:
		id, err := idPayload(payload)
		if err != nil {
			// Nothing can match an unparseable id
			s.logger.Warn("remove favourite: bad id", "payload", payload, "error", err)
			break
		}
		photos = slices.DeleteFunc(photos, func(p domain.Photo) bool { return p.ID == id })
		s.logger.Debug("favourite removed", "id", id)

	default:
		return nil, fmt.Errorf("unknown favourites event %q", kind)
	}

	if err := s.repo.Save(photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func photoPayload(payload any) (domain.Photo, bool) {
	switch p := payload.(type) {
	case domain.Photo:
		return p, true
	case *domain.Photo:
		if p != nil {
			return *p, true
		}
	}
	return domain.Photo{}, false
}

func idPayload(payload any) (int, error) {
	switch v := payload.(type) {
	case string:
		return strconv.Atoi(v)
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected id type %T", payload)
	}
}

func (s *Service) snapshot() []Renderer {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return slices.Clone(s.renderers)
}

func (s *Service) render(photos []domain.Photo) {
	for _, r := range s.snapshot() {
		r.RenderFavourites(slices.Clone(photos))
	}
}

func (s *Service) fail(err error) {
	s.logger.Error("favourites update failed", "error", err)
	for _, r := range s.snapshot() {
		r.FavouritesFailed(err)
	}
}
