package transfer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/models"
)

type UpdateSessionOptions struct {
	Columns []string
}

type ItemResult struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

type CategoryResult struct {
	Category     string       `json:"category"`
	CreatedCount int          `json:"created_count"`
	SkippedCount int          `json:"skipped_count"`
	FailedCount  int          `json:"failed_count"`
	Items        []ItemResult `json:"items"`
}

// Service owns the transfer ledger: sessions and their append-only item
// logs. The ledger is the durable source of truth for what has been
// transferred; the in-memory progress tracker is only advisory.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateSession(ctx context.Context, includeHistory bool) (*models.TransferSession, error) {
	session := &models.TransferSession{
		ID:             uuid.NewString(),
		Status:         models.TransferSessionInProgress,
		IncludeHistory: includeHistory,
		StartedAt:      time.Now(),
	}
	_, err := svc.db.NewInsert().Model(session).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}

func (svc *Service) Session(ctx context.Context, id string) (*models.TransferSession, error) {
	session := &models.TransferSession{}
	err := svc.db.NewSelect().
		Model(session).
		Where("ts.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}

// LatestSession returns the most recently started session regardless of
// status, or nil if no transfer has ever been attempted.
func (svc *Service) LatestSession(ctx context.Context) (*models.TransferSession, error) {
	session := &models.TransferSession{}
	err := svc.db.NewSelect().
		Model(session).
		Order("started_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}

// LatestInProgressSession returns the most recent resumable session, or nil
// if none exists.
func (svc *Service) LatestInProgressSession(ctx context.Context) (*models.TransferSession, error) {
	session := &models.TransferSession{}
	err := svc.db.NewSelect().
		Model(session).
		Where("status = ?", models.TransferSessionInProgress).
		Order("started_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return session, nil
}

// CancelInProgressSessions marks every in-progress session cancelled. A
// fresh non-resuming start calls this first so at most one session is ever
// in progress.
func (svc *Service) CancelInProgressSessions(ctx context.Context) error {
	now := time.Now()
	_, err := svc.db.NewUpdate().
		Model((*models.TransferSession)(nil)).
		Set("status = ?", models.TransferSessionCancelled).
		Set("completed_at = ?", now).
		Where("status = ?", models.TransferSessionInProgress).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) UpdateSession(ctx context.Context, session *models.TransferSession, opts UpdateSessionOptions) error {
	q := svc.db.NewUpdate().Model(session).WherePK()
	if len(opts.Columns) > 0 {
		q = q.Column(opts.Columns...)
	}
	_, err := q.Exec(ctx)
	return errors.WithStack(err)
}

// AppendItemLog writes one ledger row. Rows are never updated afterwards;
// the unique (session_id, category, source_id) index rejects duplicates.
func (svc *Service) AppendItemLog(ctx context.Context, log *models.TransferItemLog) error {
	if log.TransferredAt.IsZero() {
		log.TransferredAt = time.Now()
	}
	_, err := svc.db.NewInsert().Model(log).Exec(ctx)
	return errors.WithStack(err)
}

// CategoryLogs returns every ledger row for one category of a session, in
// insertion order.
func (svc *Service) CategoryLogs(ctx context.Context, sessionID, category string) ([]*models.TransferItemLog, error) {
	logs := []*models.TransferItemLog{}
	err := svc.db.NewSelect().
		Model(&logs).
		Where("session_id = ?", sessionID).
		Where("category = ?", category).
		Order("tl.id ASC").
		Scan(ctx)
	return logs, errors.WithStack(err)
}

// RemoteIDMap builds the local-to-remote id translation table for a
// dependency category from the session's ledger. Skipped rows carry the
// remote id of the duplicate they matched, so references to items that
// already existed remotely still resolve.
func (svc *Service) RemoteIDMap(ctx context.Context, sessionID, category string) (map[int]string, error) {
	logs := []*models.TransferItemLog{}
	err := svc.db.NewSelect().
		Model(&logs).
		Column("source_id", "remote_id").
		Where("session_id = ?", sessionID).
		Where("category = ?", category).
		Where("remote_id IS NOT NULL").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	m := make(map[int]string, len(logs))
	for _, log := range logs {
		m[log.SourceID] = *log.RemoteID
	}
	return m, nil
}

// Results aggregates the session's ledger into per-category counts and item
// details, in the order the categories were processed.
func (svc *Service) Results(ctx context.Context, sessionID string) ([]CategoryResult, error) {
	logs := []*models.TransferItemLog{}
	err := svc.db.NewSelect().
		Model(&logs).
		Where("session_id = ?", sessionID).
		Order("tl.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := []CategoryResult{}
	index := map[string]int{}

	for _, log := range logs {
		i, ok := index[log.Category]
		if !ok {
			i = len(results)
			index[log.Category] = i
			results = append(results, CategoryResult{Category: log.Category, Items: []ItemResult{}})
		}

		switch log.Status {
		case models.TransferItemCreated:
			results[i].CreatedCount++
		case models.TransferItemSkipped:
			results[i].SkippedCount++
		case models.TransferItemFailed:
			results[i].FailedCount++
		}

		results[i].Items = append(results[i].Items, ItemResult{
			Name:         log.Name,
			Status:       log.Status,
			ErrorMessage: log.ErrorMessage,
		})
	}

	return results, nil
}
