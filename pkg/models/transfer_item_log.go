package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TransferItemCreated = "created"
	TransferItemSkipped = "skipped"
	TransferItemFailed  = "failed"
)

// TransferItemLog is one attempted source item, append-only. The pair
// (session_id, category, source_id) is unique: it is both the idempotence
// guard on resume and the key of the local-to-remote id remap table.
type TransferItemLog struct {
	bun.BaseModel `bun:"table:transfer_item_logs,alias:tl"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	SessionID     string    `bun:",nullzero" json:"session_id"`
	Category      string    `bun:",nullzero" json:"category"`
	SourceID      int       `bun:",nullzero" json:"source_id"`
	RemoteID      *string   `json:"remote_id,omitempty"`
	Name          string    `bun:",nullzero" json:"name"`
	Status        string    `bun:",nullzero" json:"status"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	TransferredAt time.Time `json:"transferred_at"`
}
