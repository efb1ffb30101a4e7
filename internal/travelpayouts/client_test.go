package travelpayouts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.TravelpayoutsConfig{
		BaseURL:      srv.URL,
		RapidAPIKey:  "key",
		RapidAPIHost: "host",
		AccessToken:  "token",
	})
}

func TestCheapestQuery_DefaultsDestination(t *testing.T) {
	v := CheapestQuery{Origin: "BER"}.Values()

	assert.Equal(t, "-", v.Get("destination"))
	assert.Equal(t, "BER", v.Get("origin"))
	assert.Equal(t, "", v.Get("return_date"))
	assert.True(t, v.Has("return_date"))
	assert.Equal(t, "EUR", v.Get("currency"))
	assert.Equal(t, "departure_date", v.Get("calendar_type"))
	assert.Equal(t, "1", v.Get("page"))
}

func TestClient_Cheapest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, cheapestPath, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "host", r.Header.Get("x-rapidapi-host"))
		assert.Equal(t, "token", r.Header.Get("X-Access-Token"))
		assert.Equal(t, "MAD", r.URL.Query().Get("destination"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"MAD":{"0":{"airline":"IB","price":120,"flight_number":3121,"departure_at":"2026-11-02T08:00:00Z"}}}}`))
	})

	data, err := c.Cheapest(context.Background(), CheapestQuery{Origin: "BER", Destination: "MAD"})

	require.NoError(t, err)
	require.Contains(t, data, "MAD")
	assert.Equal(t, domain.RawFlight{Airline: "IB", Price: 120, FlightNumber: 3121, DepartureAt: "2026-11-02T08:00:00Z"}, data["MAD"]["0"])
}

func TestClient_Cities(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, citiesPath, r.URL.Path)
		_, _ = w.Write([]byte(`[{"code":"BER","name_translations":{"en":"Berlin"}},{"code":"MAD","name_translations":{"en":"Madrid"}}]`))
	})

	entries, err := c.Cities(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Berlin", entries[0].NameTranslations.En)
}

func TestClient_Airlines_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Airlines(context.Background())

	require.Error(t, err)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusTooManyRequests, te.StatusCode)
}

func TestClient_DecodeErrorIsNotTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [1,2,3]}`))
	})

	_, err := c.Cheapest(context.Background(), CheapestQuery{Origin: "BER"})

	require.Error(t, err)
	assert.False(t, domain.IsTransport(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := New(config.TravelpayoutsConfig{BaseURL: srv.URL})

	_, err := c.Cities(context.Background())

	assert.True(t, domain.IsTransport(err))
}
