package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ProductGroup struct {
	bun.BaseModel `bun:"table:product_groups,alias:pg"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	Description *string   `json:"description,omitempty"`
}
