package purchase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Purchase(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"user-1"`, string(body["userId"]))

		var tickets []domain.CartItem
		require.NoError(t, json.Unmarshal(body["tickets"], &tickets))
		require.Len(t, tickets, 1)
		assert.Equal(t, id, tickets[0].ID)
		assert.Equal(t, 2, tickets[0].Quantity)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(config.PurchaseConfig{URL: srv.URL})
	err := c.Purchase(context.Background(), domain.PurchaseRequest{
		UserID:  "user-1",
		Tickets: []domain.CartItem{{Flight: domain.Flight{ID: id}, Quantity: 2}},
	})

	assert.NoError(t, err)
}

func TestClient_Purchase_NonOK(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		err := New(config.PurchaseConfig{URL: srv.URL}).Purchase(context.Background(), domain.PurchaseRequest{UserID: "u"})
		srv.Close()

		var te *domain.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, status, te.StatusCode)
	}
}
