package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TodoItem struct {
	bun.BaseModel `bun:"table:todo_items,alias:ti"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Description string     `bun:",nullzero" json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Done        bool       `json:"done"`
}
