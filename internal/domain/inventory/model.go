// Package inventory provides the stock ledger: current on-hand quantity per
// product plus an append-only movement log.
package inventory

import (
	"time"

	"tillpoint/internal/core/id"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	// MovementSale is a stock decrement caused by a settled sale.
	MovementSale MovementType = "SALE"
	// MovementAdjustment is a manual correction (seeding, recounts).
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Movement is one immutable row of the stock ledger.
// Quantity is signed: sales write negative deltas.
type Movement struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Quantity  int64        `db:"quantity" json:"quantity"`
	Type      MovementType `db:"movement_type" json:"type"`
	SaleID    *id.ID       `db:"sale_id" json:"saleId,omitempty"`
	Note      string       `db:"note" json:"note"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
