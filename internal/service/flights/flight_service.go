package flights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/travelpayouts"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	FetchCheapest(ctx context.Context, params Params) error
	Snapshot() Snapshot
	Find(id uuid.UUID) (domain.Flight, bool)
}

// Params are the search inputs. Destination and ReturnDate are optional.
type Params struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	ReturnDate  string `json:"return_date"`
}

type PriceSource interface {
	Cheapest(ctx context.Context, q travelpayouts.CheapestQuery) (domain.CheapestPrices, error)
}

// Translator resolves codes to display names once reference data is ready.
type Translator interface {
	Ready() bool
	TranslateCity(code string) domain.Name
	TranslateAirline(code string) domain.Name
}

type FlightService struct {
	source PriceSource
	refs   Translator
	state  *State
	log    logrus.FieldLogger
	newID  func() uuid.UUID
}

func NewFlightService(source PriceSource, refs Translator, state *State, log logrus.FieldLogger) *FlightService {
	return &FlightService{
		source: source,
		refs:   refs,
		state:  state,
		log:    log,
		newID:  uuid.New,
	}
}

// FetchCheapest replaces the session flight list with the cheapest offers from
// params.Origin. Transport failures are stored in the state and returned;
// other failures are logged and dropped. A completion that is no longer the
// latest request, or whose ctx is done, is discarded.
func (s *FlightService) FetchCheapest(ctx context.Context, params Params) error {
	q := travelpayouts.CheapestQuery{
		Origin:      strings.ToUpper(strings.TrimSpace(params.Origin)),
		Destination: strings.ToUpper(strings.TrimSpace(params.Destination)),
		ReturnDate:  strings.TrimSpace(params.ReturnDate),
	}
	if q.Origin == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}

	seq := s.state.begin()
	log := s.log.WithFields(logrus.Fields{"origin": q.Origin, "destination": q.Destination, "seq": seq})

	data, err := s.source.Cheapest(ctx, q)

	if ctx.Err() != nil {
		s.state.complete(seq, func(*Snapshot) {})
		log.Debug("fetch abandoned by caller")
		return ctx.Err()
	}

	if err != nil {
		if domain.IsTransport(err) {
			if !s.state.complete(seq, func(n *Snapshot) { n.Err = err }) {
				log.Debug("discarding stale fetch error")
				return nil
			}
			log.WithError(err).Warn("fetch cheapest flights failed")
			return err
		}
		s.state.complete(seq, func(*Snapshot) {})
		log.WithError(err).Error("error fetch")
		return nil
	}

	flights := Normalize(q.Origin, data, s.refs, s.newID)
	if !s.state.complete(seq, func(n *Snapshot) {
		n.Flights = flights
		n.Err = nil
	}) {
		log.Debug("discarding stale fetch result")
		return nil
	}
	log.WithField("flights", len(flights)).Info("flights updated")
	return nil
}

func (s *FlightService) Snapshot() Snapshot {
	return s.state.Snapshot()
}

func (s *FlightService) Find(id uuid.UUID) (domain.Flight, bool) {
	return s.state.Find(id)
}

// Normalize flattens the pricing response into records, ordered by city code
// then flight key, numerically where the keys are numbers. It yields an empty
// list until refs is ready so that no record ever carries an untranslated code.
func Normalize(origin string, data domain.CheapestPrices, refs Translator, newID func() uuid.UUID) []domain.Flight {
	flights := []domain.Flight{}
	if !refs.Ready() {
		return flights
	}

	for _, cityCode := range sortedKeys(data) {
		city := refs.TranslateCity(cityCode).Value
		for _, key := range sortedKeys(data[cityCode]) {
			raw := data[cityCode][key]
			flights = append(flights, domain.Flight{
				ID:              newID(),
				City:            city,
				OriginCode:      origin,
				DestinationCode: cityCode,
				FlightKey:       key,
				FlightNumber:    raw.FlightNumber,
				AirlineCode:     raw.Airline,
				Airline:         refs.TranslateAirline(raw.Airline).Value,
				Price:           domain.Money{Amount: int64(math.Round(raw.Price * 100)), Currency: domain.Currency},
				DepartureAt:     raw.DepartureAt,
				ReturnAt:        raw.ReturnAt,
				ExpiresAt:       raw.ExpiresAt,
			})
		}
	}
	return flights
}

// sortedKeys orders integer keys numerically ahead of any other keys, which
// sort as strings.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

var _ FlightUseCase = (*FlightService)(nil)
