// Package catalog provides the read-mostly product view consumed by the
// settlement engine. Product lifecycle management lives outside this service;
// only the fields the engine needs are modeled here.
package catalog

import (
	"time"

	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
)

// Product is the catalog view of a sellable item.
// OnHand is owned by the inventory ledger; it appears here because the
// cart pre-check reads price, active flag and availability in one query.
type Product struct {
	ID        id.ID            `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Price     types.MinorUnits `db:"price" json:"price"`
	IsActive  bool             `db:"is_active" json:"isActive"`
	OnHand    int64            `db:"on_hand" json:"onHand"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
