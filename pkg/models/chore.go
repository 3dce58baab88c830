package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ChorePeriodManual = "manual"
	ChorePeriodDaily  = "daily"
	ChorePeriodWeekly = "weekly"
	ChorePeriodCustom = "custom"
)

type Chore struct {
	bun.BaseModel `bun:"table:chores,alias:ch"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	Description *string   `json:"description,omitempty"`
	PeriodType  string    `bun:",nullzero" json:"period_type"`
	PeriodDays  *int      `json:"period_days,omitempty"`
}

// ChoreLog is one completed execution of a chore. Logs are history data and
// only transferred to the cloud when the user opts in.
type ChoreLog struct {
	bun.BaseModel `bun:"table:chore_logs,alias:chl"`

	ID      int       `bun:",pk,nullzero" json:"id"`
	ChoreID int       `bun:",nullzero" json:"chore_id"`
	DoneAt  time.Time `json:"done_at"`
	DoneBy  *string   `json:"done_by,omitempty"`

	Chore *Chore `bun:"rel:belongs-to,join:chore_id=id" json:"chore,omitempty"`
}
