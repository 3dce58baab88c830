package models

import (
	"time"

	"github.com/uptrace/bun"
)

type CalendarEvent struct {
	bun.BaseModel `bun:"table:calendar_events,alias:cal"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `bun:",nullzero" json:"title"`
	Description *string    `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}
