package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order statuses. Checkout only ever persists paid orders; pending and
// failed exist for reconciliation tooling.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Contact is the customer contact captured at checkout.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Validate enforces the checkout contact rules: exactly 10 digits for the
// phone, and an email containing '@'.
func (c Contact) Validate() error {
	if len(c.Phone) != 10 {
		return fmt.Errorf("phone must be exactly 10 digits")
	}
	for _, r := range c.Phone {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone must be exactly 10 digits")
		}
	}
	if !strings.Contains(c.Email, "@") {
		return fmt.Errorf("email must contain @")
	}
	return nil
}

// OrderItem is a snapshot of a cart line at the moment of checkout.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Order is the immutable record of a completed purchase. Amount equals the
// cart total at submission, in minor units. PaymentReference is the opaque
// gateway identifier and is never empty on a persisted order.
type Order struct {
	ID               string      `json:"id"`
	Items            []OrderItem `json:"items"`
	Amount           int64       `json:"amount"`
	Currency         string      `json:"currency"`
	PaymentReference string      `json:"payment_reference"`
	Contact          Contact     `json:"contact"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewOrderFromCart assembles a paid order from a cart snapshot and the
// gateway's payment reference. CreatedAt is server-assigned.
func NewOrderFromCart(cart *Cart, contact Contact, paymentReference string) *Order {
	lines := cart.Snapshot()
	items := make([]OrderItem, len(lines))
	for i, line := range lines {
		items[i] = OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
	}

	return &Order{
		ID:               uuid.New().String(),
		Items:            items,
		Amount:           cart.Total(),
		Currency:         cart.Currency,
		PaymentReference: paymentReference,
		Contact:          contact,
		Status:           OrderStatusPaid,
		CreatedAt:        time.Now().UTC(),
	}
}

// Validate checks order invariants before persistence.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	if o.PaymentReference == "" {
		return fmt.Errorf("order payment reference is required")
	}
	if o.Status != OrderStatusPending && o.Status != OrderStatusPaid && o.Status != OrderStatusFailed {
		return fmt.Errorf("unknown order status %q", o.Status)
	}
	var sum int64
	for _, item := range o.Items {
		sum += item.Price * int64(item.Quantity)
	}
	if sum != o.Amount {
		return fmt.Errorf("order amount %d does not match item sum %d", o.Amount, sum)
	}
	return o.Contact.Validate()
}
