package compare

import (
	"sync"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/google/uuid"
)

type CompareUseCase interface {
	Add(id uuid.UUID)
	Remove(id uuid.UUID)
	Clear()
	Items() []domain.Flight
}

type FlightReader interface {
	Flights() []domain.Flight
}

// CompareService keeps the flights a user picked for side-by-side comparison,
// in the order they were picked.
type CompareService struct {
	flights FlightReader

	mu  sync.Mutex
	ids []uuid.UUID
}

func NewCompareService(flights FlightReader) *CompareService {
	return &CompareService{flights: flights}
}

func (s *CompareService) Add(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ids {
		if existing == id {
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *CompareService) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.ids[:0:0]
	for _, existing := range s.ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	s.ids = out
}

func (s *CompareService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// Items resolves the picked ids against the current flight list, skipping ids
// that no longer exist.
func (s *CompareService) Items() []domain.Flight {
	s.mu.Lock()
	ids := append([]uuid.UUID(nil), s.ids...)
	s.mu.Unlock()

	current := s.flights.Flights()
	items := make([]domain.Flight, 0, len(ids))
	for _, id := range ids {
		if f, ok := domain.FindFlight(current, id); ok {
			items = append(items, f)
		}
	}
	return items
}

var _ CompareUseCase = (*CompareService)(nil)
