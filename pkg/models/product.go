package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `bun:",nullzero" json:"name"`
	Description    *string   `json:"description,omitempty"`
	LocationID     *int      `json:"location_id,omitempty"`
	QuantityUnitID *int      `json:"quantity_unit_id,omitempty"`
	ProductGroupID *int      `json:"product_group_id,omitempty"`
	MinStockAmount float64   `json:"min_stock_amount"`

	Location     *Location         `bun:"rel:belongs-to,join:location_id=id" json:"location,omitempty"`
	QuantityUnit *QuantityUnit     `bun:"rel:belongs-to,join:quantity_unit_id=id" json:"quantity_unit,omitempty"`
	ProductGroup *ProductGroup     `bun:"rel:belongs-to,join:product_group_id=id" json:"product_group,omitempty"`
	Barcodes     []*ProductBarcode `bun:"rel:has-many,join:id=product_id" json:"barcodes,omitempty"`
}

type ProductBarcode struct {
	bun.BaseModel `bun:"table:product_barcodes,alias:pb"`

	ID        int     `bun:",pk,nullzero" json:"id"`
	ProductID int     `bun:",nullzero" json:"product_id"`
	Barcode   string  `bun:",nullzero" json:"barcode"`
	Note      *string `json:"note,omitempty"`
}
