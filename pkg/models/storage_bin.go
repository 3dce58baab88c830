package models

import (
	"time"

	"github.com/uptrace/bun"
)

type StorageBin struct {
	bun.BaseModel `bun:"table:storage_bins,alias:sb"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `bun:",nullzero" json:"name"`
	LocationID *int      `json:"location_id,omitempty"`

	Location *Location `bun:"rel:belongs-to,join:location_id=id" json:"location,omitempty"`
}
