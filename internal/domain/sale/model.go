// Package sale provides the Sale aggregate: the durable record of a checkout
// attempt and its line items.
package sale

import (
	"time"

	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
)

// Status is the lifecycle state of a sale.
// The only transition settlement paths may perform is Pending -> Paid.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// Sale is the aggregate root. Total is a snapshot computed at creation and
// never recomputed from the catalog afterwards.
type Sale struct {
	ID           id.ID            `db:"id" json:"id"`
	CashierID    string           `db:"cashier_id" json:"cashierId"`
	CustomerName string           `db:"customer_name" json:"customerName,omitempty"`
	Total        types.MinorUnits `db:"total" json:"total"`
	Status       Status           `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one line of a sale. UnitPrice and ProductName are snapshots taken
// at sale creation; later catalog changes never alter them.
type Item struct {
	ID          id.ID            `db:"id" json:"id"`
	SaleID      id.ID            `db:"sale_id" json:"-"`
	ProductID   id.ID            `db:"product_id" json:"productId"`
	ProductName string           `db:"product_name" json:"productName"`
	Quantity    int64            `db:"quantity" json:"quantity"`
	UnitPrice   types.MinorUnits `db:"unit_price" json:"unitPrice"`
	Subtotal    types.MinorUnits `db:"subtotal" json:"subtotal"`
}

// IsPending reports whether the sale can still be settled.
func (s *Sale) IsPending() bool {
	return s.Status == StatusPending
}
