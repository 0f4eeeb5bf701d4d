package domain

import "time"

// Cart is a session-scoped shopping cart. Lines are keyed by product ID:
// adding a product that is already present merges into its line instead of
// appending a duplicate.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine is a single product line in the cart.
type CartLine struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// NewCart creates an empty cart for a session.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Lines:     []CartLine{},
		Currency:  "INR",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total recomputes the cart total (price * quantity over all lines) in minor
// units. The total is never cached.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// LineCount returns the number of distinct product lines.
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line for the given product ID, or -1.
func (c *Cart) FindLine(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddProduct merges the product into the cart: an existing line gains one
// quantity, otherwise a new line starts at quantity 1.
func (c *Cart) AddProduct(p *Product) {
	if i := c.FindLine(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  1,
	})
}

// ApplyQuantityDelta adjusts a line's quantity by delta, clamped to a floor
// of 1. Decrementing never removes the line; removal is explicit. Returns
// false when no line matches the product ID.
func (c *Cart) ApplyQuantityDelta(productID string, delta int) bool {
	i := c.FindLine(productID)
	if i < 0 {
		return false
	}
	q := c.Lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.Lines[i].Quantity = q
	return true
}

// RemoveLine deletes the line for the given product ID regardless of its
// quantity. Returns false when no line matches.
func (c *Cart) RemoveLine(productID string) bool {
	i := c.FindLine(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Snapshot returns a deep copy of the cart lines for order assembly, so the
// order is insulated from later cart mutation.
func (c *Cart) Snapshot() []CartLine {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}
