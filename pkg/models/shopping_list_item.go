package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ShoppingListItem struct {
	bun.BaseModel `bun:"table:shopping_list_items,alias:sli"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Note      string    `bun:",nullzero" json:"note"`
	Amount    float64   `json:"amount"`
	ProductID *int      `json:"product_id,omitempty"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}

// DisplayName prefers the linked product's name over the free-form note.
func (sli *ShoppingListItem) DisplayName() string {
	if sli.Product != nil && sli.Product.Name != "" {
		return sli.Product.Name
	}
	return sli.Note
}
