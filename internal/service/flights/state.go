package flights

import (
	"sync"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/google/uuid"
)

// Snapshot is an immutable view of the session's flight state.
type Snapshot struct {
	Version uint64
	Flights []domain.Flight
	Loading bool
	Err     error
}

// State holds the current flight list. Only FlightService writes it.
// Each fetch is tagged with a sequence number and only the latest issued tag
// may complete.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
	seq  uint64
}

func NewState() *State {
	return &State{snap: Snapshot{Flights: []domain.Flight{}}}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State) Flights() []domain.Flight {
	return s.Snapshot().Flights
}

func (s *State) Find(id uuid.UUID) (domain.Flight, bool) {
	return domain.FindFlight(s.Flights(), id)
}

// begin issues a new sequence tag and marks the state loading.
func (s *State) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.snap = s.next(func(n *Snapshot) { n.Loading = true })
	return s.seq
}

// complete applies fn only if seq is still the latest tag. It reports whether fn ran.
func (s *State) complete(seq uint64, fn func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.snap = s.next(func(n *Snapshot) {
		fn(n)
		n.Loading = false
	})
	return true
}

func (s *State) next(fn func(*Snapshot)) Snapshot {
	n := s.snap
	n.Version++
	fn(&n)
	return n
}
