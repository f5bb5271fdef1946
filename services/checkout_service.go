package services

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// Shipping policy, mirrored from the storefront.
const (
	FreeShippingThreshold = 2500.0
	ShippingCost          = 150.0
)

// UpstreamOrders is the slice of the upstream API checkout needs.
type UpstreamOrders interface {
	PricesForProduct(ctx context.Context, productID string) ([]models.Price, error)
	CreateOrder(ctx context.Context, token string, order models.OrderCreate) (*models.Order, error)
}

// PaymentTokenizer exchanges an amount for an opaque payment reference.
type PaymentTokenizer interface {
	CreatePaymentIntent(amount int64, currency string) (string, error)
}

// EventPublisher emits order events to the message bus.
type EventPublisher interface {
	SendOrderPlaced(event models.OrderPlacedEvent) error
}

// Notifier publishes out-of-band notifications (SNS).
type Notifier interface {
	Publish(ctx context.Context, topicARN string, message []byte) error
}

// Totals is the priced view of a cart: per-line unit prices resolved
// against each line's selected retailer.
type Totals struct {
	Items    []models.OrderItemCreate `json:"items"`
	Subtotal float64                  `json:"subtotal"`
	Shipping float64                  `json:"shipping"`
	Total    float64                  `json:"total"`
}

// CheckoutService turns the active cart into an order: prices each line,
// tokenizes the payment, submits the order upstream, emits events and
// clears the cart. Payment, events and notifications are optional
// collaborators; a nil one is skipped.
type CheckoutService struct {
	api      UpstreamOrders
	carts    *CartService
	payments PaymentTokenizer
	producer EventPublisher
	notifier Notifier
	topicARN string
	log      *zap.Logger
}

func NewCheckoutService(api UpstreamOrders, carts *CartService, payments PaymentTokenizer, producer EventPublisher, notifier Notifier, topicARN string, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		api:      api,
		carts:    carts,
		payments: payments,
		producer: producer,
		notifier: notifier,
		topicARN: topicARN,
		log:      log,
	}
}

// Price resolves each cart line against its retailer's current offer and
// computes subtotal, shipping and total.
func (s *CheckoutService) Price(ctx context.Context, owner string) (*Totals, error) {
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.Count() == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	totals := &Totals{Items: []models.OrderItemCreate{}}
	for _, line := range cart.Lines {
		prices, err := s.api.PricesForProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		unit := 0.0
		if len(prices) > 0 {
			unit = prices[0].Price
			for _, p := range prices {
				if p.Site == line.SelectedSite {
					unit = p.Price
					break
				}
			}
		}

		totals.Items = append(totals.Items, models.OrderItemCreate{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
		})
		totals.Subtotal += round2(unit * float64(line.Quantity))
	}

	totals.Subtotal = round2(totals.Subtotal)
	if totals.Subtotal > 0 && totals.Subtotal < FreeShippingThreshold {
		totals.Shipping = ShippingCost
	}
	totals.Total = round2(totals.Subtotal + totals.Shipping)
	return totals, nil
}

// Checkout places an order from the owner's cart and clears it.
func (s *CheckoutService) Checkout(ctx context.Context, session *models.Session, owner, shippingAddress string) (*models.Order, error) {
	cart, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	totals, err := s.Price(ctx, owner)
	if err != nil {
		return nil, err
	}

	paymentID := ""
	if s.payments != nil {
		paymentID, err = s.payments.CreatePaymentIntent(int64(math.Round(totals.Total*100)), "mxn")
		if err != nil {
			return nil, apperrors.New(http.StatusBadGateway, "No se pudo procesar el pago", err)
		}
	}

	order, err := s.api.CreateOrder(ctx, session.Token, models.OrderCreate{
		Items:           totals.Items,
		ShippingAddress: shippingAddress,
	})
	if err != nil {
		return nil, err
	}

	event := models.OrderPlacedEvent{
		Event:     "order.placed",
		OrderID:   order.ID,
		UserID:    session.User.ID,
		Lines:     cart.Lines,
		Total:     totals.Total,
		PaymentID: paymentID,
		Timestamp: time.Now().UTC(),
	}
	if s.producer != nil {
		if err := s.producer.SendOrderPlaced(event); err != nil {
			s.log.Warn("checkout: order event publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.notifier != nil && s.topicARN != "" {
		if msg, err := json.Marshal(event); err == nil {
			if err := s.notifier.Publish(ctx, s.topicARN, msg); err != nil {
				s.log.Warn("checkout: sns notification failed", zap.String("order_id", order.ID), zap.Error(err))
			}
		}
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		s.log.Warn("checkout: cart clear failed", zap.String("owner", owner), zap.Error(err))
	}

	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
