package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceMap_Lookup(t *testing.T) {
	m := NewReferenceMap(map[string]string{"BER": "Berlin", "": "Nowhere", "XXX": " "})

	assert.Equal(t, Name{Value: "Berlin", Known: true}, m.Lookup("BER"))
	assert.Equal(t, Name{Value: NotAvailable}, m.Lookup("MAD"))
	assert.Equal(t, Name{Value: NotAvailable}, m.Lookup("XXX"))
	assert.Equal(t, 1, m.Len())

	var zero ReferenceMap
	assert.Equal(t, NotAvailable, zero.Lookup("BER").String())
}

func TestReferenceMap_JSONRoundTrip(t *testing.T) {
	m := NewReferenceMap(map[string]string{"BER": "Berlin", "MAD": "Madrid"})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	var got ReferenceMap
	require.NoError(t, json.Unmarshal(data, &got))

	if diff := cmp.Diff(m.Entries(), got.Entries()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	empty, err := json.Marshal(ReferenceMap{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestReduceReference(t *testing.T) {
	var entries []ReferenceEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"code":"LH","name_translations":{"en":"Lufthansa"}},
		{"code":"IB","name_translations":{"en":"Iberia","de":"Iberia"}},
		{"code":"ZZ","name_translations":{}}
	]`), &entries))

	m := ReduceReference(entries)

	assert.Equal(t, map[string]string{"LH": "Lufthansa", "IB": "Iberia"}, m.Entries())
}

func TestReduceReference_BlankDuplicateKeepsName(t *testing.T) {
	var entries []ReferenceEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"code":"LH","name_translations":{"en":"Lufthansa"}},
		{"code":"LH","name_translations":{"en":""}},
		{"code":"IB","name_translations":{"en":"Iberia"}},
		{"code":"IB","name_translations":{"en":"Iberia Express"}}
	]`), &entries))

	m := ReduceReference(entries)

	assert.Equal(t, "Lufthansa", m.Lookup("LH").Value)
	assert.Equal(t, "Iberia Express", m.Lookup("IB").Value)
}

func TestCartSnapshot_Transitions(t *testing.T) {
	id := uuid.New()
	s := NewCartSnapshot(0, nil)

	s1 := s.WithAdded(id)
	s2 := s1.WithAdded(id)
	assert.Equal(t, 0, s.Quantity(id), "snapshots are immutable")
	assert.Equal(t, 1, s1.Quantity(id))
	assert.Equal(t, 2, s2.Quantity(id))

	s3 := s2.WithRemoved(id).WithRemoved(id)
	assert.Equal(t, 0, s3.Len())
	assert.Equal(t, uint64(4), s3.Version)

	assert.Equal(t, s3, s3.WithRemoved(id))
}

func TestJoinCartAndTotal(t *testing.T) {
	a := Flight{ID: uuid.New(), Price: Money{Amount: 100, Currency: Currency}}
	b := Flight{ID: uuid.New(), Price: Money{Amount: 50, Currency: Currency}}
	gone := uuid.New()

	cart := NewCartSnapshot(0, nil).WithAdded(a.ID).WithAdded(a.ID).WithAdded(b.ID).WithAdded(gone)

	items := JoinCart(cart, []Flight{a, b})
	assert.Len(t, items, 2)
	for _, it := range items {
		assert.NotEqual(t, gone, it.ID)
	}
	assert.Equal(t, Money{Amount: 250, Currency: Currency}, CartTotal(cart, []Flight{a, b}))
	assert.Equal(t, Money{Amount: 50, Currency: Currency}, CartTotal(cart, []Flight{b}))
	assert.Empty(t, JoinCart(cart, nil))
}

func TestCartItem_JSONFlattensFlight(t *testing.T) {
	item := CartItem{Flight: Flight{ID: uuid.Nil, City: "Madrid"}, Quantity: 3}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Madrid", m["city"])
	assert.Equal(t, float64(3), m["quantity"])
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Op: "purchase", Err: cause})

	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "purchase: connection refused", err.Error())
	assert.Equal(t, "purchase: unexpected status 500", (&TransportError{Op: "purchase", StatusCode: 500}).Error())
	assert.False(t, IsTransport(ErrValidation))
}
