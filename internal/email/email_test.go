package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/Domenick1991/flightcart/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSender_Send(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	err := NewSender(l).Send(context.Background(), kafka.CheckoutEvent{
		Type:    "checkout_completed",
		UserID:  "user-1",
		Tickets: []kafka.TicketLine{{Quantity: 2}, {Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"tickets":3`)
	assert.Contains(t, buf.String(), `"user_id":"user-1"`)
}
