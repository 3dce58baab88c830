package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Equipment struct {
	bun.BaseModel `bun:"table:equipment,alias:e"`

	ID           int        `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Name         string     `bun:",nullzero" json:"name"`
	Description  *string    `json:"description,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
	WarrantyInfo *string    `json:"warranty_info,omitempty"`
}
