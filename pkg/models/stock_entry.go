package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StockEntry struct {
	bun.BaseModel `bun:"table:stock_entries,alias:se"`

	ID             int        `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ProductID      int        `bun:",nullzero" json:"product_id"`
	LocationID     *int       `json:"location_id,omitempty"`
	Amount         float64    `json:"amount"`
	BestBeforeDate *time.Time `json:"best_before_date,omitempty"`

	Product  *Product  `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	Location *Location `bun:"rel:belongs-to,join:location_id=id" json:"location,omitempty"`
}
