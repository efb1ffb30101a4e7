package domain

import "github.com/google/uuid"

// Currency of every price requested from the pricing API.
const Currency = "EUR"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Flight is one normalised cheapest-price offer. Records are immutable once built.
type Flight struct {
	ID              uuid.UUID `json:"id"`
	City            string    `json:"city"`
	OriginCode      string    `json:"origin"`
	DestinationCode string    `json:"destination"`
	FlightKey       string    `json:"flight_key"`
	FlightNumber    int       `json:"flight_number"`
	AirlineCode     string    `json:"airline_code"`
	Airline         string    `json:"airline"`
	Price           Money     `json:"price"`
	DepartureAt     string    `json:"departure_at"`
	ReturnAt        string    `json:"return_at,omitempty"`
	ExpiresAt       string    `json:"expires_at,omitempty"`
}

// RawFlight is a leaf of the pricing response, keyed by destination and flight key.
type RawFlight struct {
	Airline      string  `json:"airline"`
	FlightNumber int     `json:"flight_number"`
	Price        float64 `json:"price"`
	DepartureAt  string  `json:"departure_at"`
	ReturnAt     string  `json:"return_at"`
	ExpiresAt    string  `json:"expires_at"`
}

// CheapestPrices maps destination city code -> flight key -> offer.
type CheapestPrices map[string]map[string]RawFlight

// FindFlight returns the record with the given id, if any.
func FindFlight(flights []Flight, id uuid.UUID) (Flight, bool) {
	for _, f := range flights {
		if f.ID == id {
			return f, true
		}
	}
	return Flight{}, false
}
