package models

import (
	"time"

	"github.com/uptrace/bun"
)

// HomeProfile is a singleton; the row with the lowest id is the active
// profile and the only one the transfer engine considers.
type HomeProfile struct {
	bun.BaseModel `bun:"table:home_profiles,alias:hp"`

	ID        int        `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Name      string     `bun:",nullzero" json:"name"`
	Address   *string    `json:"address,omitempty"`
	MovedInAt *time.Time `json:"moved_in_at,omitempty"`

	Utilities []*HomeUtility `bun:"rel:has-many,join:id=home_profile_id" json:"utilities,omitempty"`
}

type HomeUtility struct {
	bun.BaseModel `bun:"table:home_utilities,alias:hu"`

	ID            int     `bun:",pk,nullzero" json:"id"`
	HomeProfileID int     `bun:",nullzero" json:"home_profile_id"`
	Name          string  `bun:",nullzero" json:"name"`
	Provider      *string `json:"provider,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}
