package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightcart/internal/domain"
	"github.com/Domenick1991/flightcart/internal/kafka"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConfirmationView is where a successful checkout sends the user.
const ConfirmationView = "/confirmation"

type CartUseCase interface {
	Add(id uuid.UUID)
	Remove(id uuid.UUID)
	Items() []domain.CartItem
	Total() domain.Money
	Snapshot() domain.CartSnapshot
	Checkout(ctx context.Context, userID string) error
}

// FlightReader exposes the current flight list the cart resolves against.
type FlightReader interface {
	Flights() []domain.Flight
}

type Purchaser interface {
	Purchase(ctx context.Context, req domain.PurchaseRequest) error
}

type Navigator interface {
	Navigate(ctx context.Context, view string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, view string)

func (f NavigatorFunc) Navigate(ctx context.Context, view string) { f(ctx, view) }

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CartService struct {
	flights   FlightReader
	purchaser Purchaser
	navigator Navigator
	log       logrus.FieldLogger

	producer           Producer
	checkoutTopic      string
	notificationsTopic string

	mu   sync.Mutex
	snap domain.CartSnapshot
}

type CartServiceOption func(*CartService)

// WithEvents publishes checkout_completed events to topic after a successful checkout.
func WithEvents(producer Producer, topic string) CartServiceOption {
	return func(s *CartService) {
		s.producer = producer
		s.checkoutTopic = topic
	}
}

func WithNotificationsTopic(topic string) CartServiceOption {
	return func(s *CartService) {
		s.notificationsTopic = topic
	}
}

func NewCartService(flights FlightReader, purchaser Purchaser, navigator Navigator, log logrus.FieldLogger, opts ...CartServiceOption) *CartService {
	s := &CartService{
		flights:   flights,
		purchaser: purchaser,
		navigator: navigator,
		log:       log,
		snap:      domain.NewCartSnapshot(0, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CartService) Add(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = s.snap.WithAdded(id)
}

// Remove drops one unit of id. The line disappears at zero; absent ids are ignored.
func (s *CartService) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = s.snap.WithRemoved(id)
}

func (s *CartService) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *CartService) Items() []domain.CartItem {
	return domain.JoinCart(s.Snapshot(), s.flights.Flights())
}

func (s *CartService) Total() domain.Money {
	return domain.CartTotal(s.Snapshot(), s.flights.Flights())
}

// Checkout posts the resolvable cart items for userID. The cart is never
// cleared, so a failed checkout can be retried as is. A cart with no
// resolvable lines is rejected with ErrValidation instead of posting an
// empty ticket list.
func (s *CartService) Checkout(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	snap := s.Snapshot()
	flights := s.flights.Flights()
	items := domain.JoinCart(snap, flights)
	if len(items) == 0 {
		return fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	log := s.log.WithFields(logrus.Fields{"user_id": userID, "tickets": len(items)})
	if err := s.purchaser.Purchase(ctx, domain.PurchaseRequest{Tickets: items, UserID: userID}); err != nil {
		log.WithError(err).Error("checkout failed")
		return err
	}
	log.Info("checkout completed")

	if s.navigator != nil {
		s.navigator.Navigate(ctx, ConfirmationView)
	}
	if err := s.publish(ctx, userID, items, domain.CartTotal(snap, flights)); err != nil {
		log.WithError(err).Warn("failed to publish checkout_completed event")
	}
	return nil
}

func (s *CartService) publish(ctx context.Context, userID string, items []domain.CartItem, total domain.Money) error {
	if s.producer == nil || s.checkoutTopic == "" {
		return nil
	}
	event := kafka.CheckoutEvent{
		Type:        "checkout_completed",
		UserID:      userID,
		Tickets:     make([]kafka.TicketLine, 0, len(items)),
		Total:       total,
		CompletedAt: time.Now().UTC(),
	}
	for _, it := range items {
		event.Tickets = append(event.Tickets, kafka.TicketLine{
			FlightID:    it.ID.String(),
			Route:       it.OriginCode + "-" + it.DestinationCode,
			Airline:     it.Airline,
			DepartureAt: it.DepartureAt,
			Quantity:    it.Quantity,
		})
	}
	if err := s.producer.Publish(ctx, s.checkoutTopic, userID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, userID, event)
	}
	return nil
}

var _ CartUseCase = (*CartService)(nil)
