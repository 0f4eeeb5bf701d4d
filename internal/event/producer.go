package event

import (
	"context"
	"fmt"

	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/pkg/kafka"
	"github.com/dont21900-lgtm/editing-store/pkg/logger"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated    = "store.cart.updated"
	TopicCartCleared    = "store.cart.cleared"
	TopicOrderCreated   = "store.order.created"
	TopicCheckoutFailed = "store.checkout.failed"
	TopicProductCreated = "store.product.created"
)

const source = "editing-store"

// Publisher abstracts the Kafka producer for testing.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	publisher Publisher
}

// NewProducer creates a new domain event producer.
func NewProducer(publisher Publisher) *Producer {
	return &Producer{publisher: publisher}
}

// CartUpdatedData is the payload for store.cart.updated events.
type CartUpdatedData struct {
	SessionID string `json:"session_id"`
	LineCount int    `json:"line_count"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: cart.SessionID,
		LineCount: cart.LineCount(),
		Total:     cart.Total(),
		Currency:  cart.Currency,
	}

	evt, err := kafka.NewEvent("cart.updated", cart.SessionID, "cart", source, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	return p.publish(ctx, TopicCartUpdated, evt)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := map[string]string{"session_id": sessionID}

	evt, err := kafka.NewEvent("cart.cleared", sessionID, "cart", source, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	return p.publish(ctx, TopicCartCleared, evt)
}

// OrderCreatedData is the payload for store.order.created events.
type OrderCreatedData struct {
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	PaymentReference string `json:"payment_reference"`
	CustomerEmail    string `json:"customer_email"`
	ItemCount        int    `json:"item_count"`
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	data := OrderCreatedData{
		OrderID:          o.ID,
		Amount:           o.Amount,
		Currency:         o.Currency,
		PaymentReference: o.PaymentReference,
		CustomerEmail:    o.Contact.Email,
		ItemCount:        len(o.Items),
	}

	evt, err := kafka.NewEvent("order.created", o.ID, "order", source, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	return p.publish(ctx, TopicOrderCreated, evt)
}

// CheckoutFailedData is the payload for store.checkout.failed events.
type CheckoutFailedData struct {
	SessionID        string `json:"session_id"`
	Outcome          string `json:"outcome"`
	PaymentReference string `json:"payment_reference,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// PublishCheckoutFailed publishes a checkout.failed event for gateway
// failures, dismissals, and post-payment persistence failures.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, sessionID, outcome, paymentReference, reason string) error {
	data := CheckoutFailedData{
		SessionID:        sessionID,
		Outcome:          outcome,
		PaymentReference: paymentReference,
		Reason:           reason,
	}

	evt, err := kafka.NewEvent("checkout.failed", sessionID, "checkout", source, data)
	if err != nil {
		return fmt.Errorf("create checkout.failed event: %w", err)
	}

	return p.publish(ctx, TopicCheckoutFailed, evt)
}

// ProductCreatedData is the payload for store.product.created events.
type ProductCreatedData struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
}

// PublishProductCreated publishes a product.created event after composition.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ProductID: product.ID,
		Title:     product.Title,
		Category:  product.Category,
		Price:     product.Price,
	}

	evt, err := kafka.NewEvent("product.created", product.ID, "product", source, data)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	return p.publish(ctx, TopicProductCreated, evt)
}

func (p *Producer) publish(ctx context.Context, topic string, evt *kafka.Event) error {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	return p.publisher.Publish(ctx, topic, evt)
}
