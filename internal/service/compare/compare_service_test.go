package compare

import (
	"testing"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type flightList []domain.Flight

func (f *flightList) Flights() []domain.Flight { return *f }

func TestCompareService(t *testing.T) {
	a := domain.Flight{ID: uuid.New(), City: "Madrid"}
	b := domain.Flight{ID: uuid.New(), City: "Lisbon"}
	flights := &flightList{a, b}
	service := NewCompareService(flights)

	service.Add(b.ID)
	service.Add(a.ID)
	service.Add(b.ID)
	assert.Equal(t, []domain.Flight{b, a}, service.Items())

	service.Remove(uuid.New())
	service.Remove(b.ID)
	assert.Equal(t, []domain.Flight{a}, service.Items())

	*flights = flightList{b}
	assert.Empty(t, service.Items())

	service.Add(b.ID)
	service.Clear()
	assert.Empty(t, service.Items())
}
