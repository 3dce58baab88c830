package models

import (
	"time"

	"github.com/uptrace/bun"
)

type QuantityUnit struct {
	bun.BaseModel `bun:"table:quantity_units,alias:qu"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	NamePlural  *string   `json:"name_plural,omitempty"`
	Description *string   `json:"description,omitempty"`
}
