package domain

import (
	"sort"

	"github.com/google/uuid"
)

// CartLine is a positive quantity of one flight. Lines never hold zero.
type CartLine struct {
	FlightID uuid.UUID `json:"flight_id"`
	Quantity int       `json:"quantity"`
}

// CartItem is a flight joined with its cart quantity.
type CartItem struct {
	Flight
	Quantity int `json:"quantity"`
}

// CartSnapshot is an immutable view of the cart at a given version.
type CartSnapshot struct {
	Version uint64
	lines   map[uuid.UUID]int
}

func NewCartSnapshot(version uint64, lines map[uuid.UUID]int) CartSnapshot {
	return CartSnapshot{Version: version, lines: lines}
}

// Quantity returns 0 for absent lines.
func (s CartSnapshot) Quantity(id uuid.UUID) int {
	return s.lines[id]
}

func (s CartSnapshot) Len() int { return len(s.lines) }

// Lines returns the cart lines ordered by flight id.
func (s CartSnapshot) Lines() []CartLine {
	out := make([]CartLine, 0, len(s.lines))
	for id, qty := range s.lines {
		out = append(out, CartLine{FlightID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FlightID.String() < out[j].FlightID.String()
	})
	return out
}

// WithAdded returns a copy of the snapshot with one more unit of id.
func (s CartSnapshot) WithAdded(id uuid.UUID) CartSnapshot {
	lines := s.copyLines()
	lines[id]++
	return CartSnapshot{Version: s.Version + 1, lines: lines}
}

// WithRemoved returns a copy with one less unit of id. Removing an absent id
// returns s unchanged.
func (s CartSnapshot) WithRemoved(id uuid.UUID) CartSnapshot {
	qty, ok := s.lines[id]
	if !ok {
		return s
	}
	lines := s.copyLines()
	if qty <= 1 {
		delete(lines, id)
	} else {
		lines[id] = qty - 1
	}
	return CartSnapshot{Version: s.Version + 1, lines: lines}
}

func (s CartSnapshot) copyLines() map[uuid.UUID]int {
	lines := make(map[uuid.UUID]int, len(s.lines)+1)
	for k, v := range s.lines {
		lines[k] = v
	}
	return lines
}

// JoinCart resolves cart lines against the current flight list. Lines whose
// flight is gone are dropped.
func JoinCart(cart CartSnapshot, flights []Flight) []CartItem {
	byID := indexFlights(flights)
	items := make([]CartItem, 0, cart.Len())
	for _, line := range cart.Lines() {
		f, ok := byID[line.FlightID]
		if !ok {
			continue
		}
		items = append(items, CartItem{Flight: f, Quantity: line.Quantity})
	}
	return items
}

// CartTotal sums price * quantity over lines that still resolve.
func CartTotal(cart CartSnapshot, flights []Flight) Money {
	total := Money{Currency: Currency}
	for _, item := range JoinCart(cart, flights) {
		total.Amount += item.Price.Amount * int64(item.Quantity)
	}
	return total
}

func indexFlights(flights []Flight) map[uuid.UUID]Flight {
	byID := make(map[uuid.UUID]Flight, len(flights))
	for _, f := range flights {
		byID[f.ID] = f
	}
	return byID
}

// PurchaseRequest is the body posted to the purchase endpoint.
type PurchaseRequest struct {
	Tickets []CartItem `json:"tickets"`
	UserID  string     `json:"userId"`
}
