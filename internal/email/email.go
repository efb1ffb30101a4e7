package email

import (
	"context"

	"github.com/Domenick1991/flightcart/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers checkout confirmations. It only logs for now.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.CheckoutEvent) error {
	tickets := 0
	for _, t := range event.Tickets {
		tickets += t.Quantity
	}
	s.log.WithFields(logrus.Fields{
		"user_id": event.UserID,
		"type":    event.Type,
		"tickets": tickets,
		"total":   event.Total.Amount,
	}).Info("send checkout confirmation")
	return nil
}
