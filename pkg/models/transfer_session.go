package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TransferSessionInProgress = "in_progress"
	TransferSessionCompleted  = "completed"
	TransferSessionCancelled  = "cancelled"
	TransferSessionFailed     = "failed"
)

// TransferSession is one migration attempt against the cloud service. A
// session can span multiple process runs: an in-progress session left behind
// by a crash or cancel is resumable, and the refresh token stored on it lets
// the resume re-authenticate without user credentials.
type TransferSession struct {
	bun.BaseModel `bun:"table:transfer_sessions,alias:ts"`

	ID                string     `bun:",pk,nullzero" json:"id"`
	Status            string     `bun:",nullzero" json:"status"`
	CurrentCategory   *string    `json:"current_category,omitempty"`
	IncludeHistory    bool       `json:"include_history"`
	CloudAccountEmail *string    `json:"cloud_account_email,omitempty"`
	CloudRefreshToken *string    `json:"-"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
