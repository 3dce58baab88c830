package transfer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/errcodes"
	"github.com/hauskeep/hauskeep/pkg/household"
	"github.com/hauskeep/hauskeep/pkg/models"
)

// Orchestrator drives a transfer end to end: session lifecycle, the ordered
// category sequence, background execution, and the polled progress
// snapshot. At most one transfer runs per process; the running flag is the
// single-slot guard, and the session table enforces the same invariant
// across restarts.
type Orchestrator struct {
	ledger    *Service
	household *household.Service
	client    *cloud.Client
	tracker   *Tracker
	log       logger.Logger

	running  atomic.Bool
	shutdown atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	runDone chan struct{}
}

func NewOrchestrator(db *bun.DB, client *cloud.Client) *Orchestrator {
	return &Orchestrator{
		ledger:    NewService(db),
		household: household.NewService(db),
		client:    client,
		tracker:   NewTracker(),
		log:       logger.New(),
	}
}

// Authenticate logs into (or registers) the cloud account. On success the
// session credential is persisted against the most recent in-progress
// session, if any, so a later resume can restore it without credentials.
func (o *Orchestrator) Authenticate(ctx context.Context, email, password string, isRegistration bool, firstName, lastName string) error {
	var err error
	if isRegistration {
		err = o.client.Register(ctx, email, password, firstName, lastName)
	} else {
		err = o.client.Authenticate(ctx, email, password)
	}
	if err != nil {
		return err
	}

	session, err := o.ledger.LatestInProgressSession(ctx)
	if err != nil {
		return err
	}
	if session != nil {
		o.saveCredential(ctx, session)
	}
	return nil
}

// Summary returns per-category local item counts. Read-only; no session
// required.
func (o *Orchestrator) Summary(ctx context.Context) ([]household.CategoryCount, error) {
	return o.household.Counts(ctx)
}

// SessionInfo returns the most recent resumable session, or nil when there
// is none.
func (o *Orchestrator) SessionInfo(ctx context.Context) (*models.TransferSession, error) {
	return o.ledger.LatestInProgressSession(ctx)
}

// Start begins a transfer in the background and returns the session id
// immediately; callers poll Progress. A fresh start cancels any other
// in-progress sessions first; a resume re-opens the most recent one and
// reuses its scope and credential.
func (o *Orchestrator) Start(ctx context.Context, includeHistory, resume bool) (string, error) {
	if !o.running.CompareAndSwap(false, true) {
		return "", errcodes.Conflict("a transfer is already running")
	}

	session, cats, err := o.prepare(ctx, includeHistory, resume)
	if err != nil {
		o.running.Store(false)
		return "", err
	}

	o.tracker.Begin(session.ID, len(cats))
	o.shutdown.Store(false)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	o.mu.Lock()
	o.cancel = cancel
	o.runDone = done
	o.mu.Unlock()

	go o.run(runCtx, session, cats, done)

	return session.ID, nil
}

func (o *Orchestrator) prepare(ctx context.Context, includeHistory, resume bool) (*models.TransferSession, []categoryDescriptor, error) {
	if resume {
		session, err := o.ledger.LatestInProgressSession(ctx)
		if err != nil {
			return nil, nil, err
		}
		if session == nil {
			return nil, nil, errcodes.NotFound("Resumable transfer session")
		}
		if session.CloudRefreshToken != nil {
			if err := o.client.RestoreSession(ctx, *session.CloudRefreshToken); err != nil {
				return nil, nil, err
			}
			// A refresh rotates the credential; keep the stored one usable.
			o.saveCredential(ctx, session)
		}
		cats, err := activeCategories(session.IncludeHistory)
		if err != nil {
			return nil, nil, err
		}
		return session, cats, nil
	}

	if err := o.ledger.CancelInProgressSessions(ctx); err != nil {
		return nil, nil, err
	}
	session, err := o.ledger.CreateSession(ctx, includeHistory)
	if err != nil {
		return nil, nil, err
	}
	o.saveCredential(ctx, session)

	cats, err := activeCategories(includeHistory)
	if err != nil {
		return nil, nil, err
	}
	return session, cats, nil
}

// saveCredential persists the client's current account email and refresh
// token on the session. Failures are logged and swallowed; a missing
// credential only degrades resume, it never blocks a transfer.
func (o *Orchestrator) saveCredential(ctx context.Context, session *models.TransferSession) {
	if o.client.RefreshToken() == "" {
		return
	}
	email := o.client.Email()
	token := o.client.RefreshToken()
	session.CloudAccountEmail = &email
	session.CloudRefreshToken = &token
	err := o.ledger.UpdateSession(ctx, session, UpdateSessionOptions{
		Columns: []string{"cloud_account_email", "cloud_refresh_token"},
	})
	if err != nil {
		o.log.Err(err).Error("save cloud credential error")
	}
}

// Cancel signals the running transfer to stop. The run observes it at
// category and item boundaries and marks the session cancelled; calling
// Cancel with nothing running is a no-op.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Shutdown stops the running transfer and waits for its goroutine to drain
// so the caller can safely close the database afterwards. Unlike Cancel,
// the interrupted session keeps its in-progress status and is offered for
// resume on the next start.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	o.shutdown.Store(true)

	o.mu.Lock()
	cancel := o.cancel
	done := o.runDone
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Progress returns the live snapshot, or false if no transfer has run in
// this process.
func (o *Orchestrator) Progress() (Progress, bool) {
	return o.tracker.Snapshot()
}

// Results aggregates the most recent session's ledger into a per-category
// report.
func (o *Orchestrator) Results(ctx context.Context) ([]CategoryResult, error) {
	session, err := o.ledger.LatestSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errcodes.NotFound("Transfer session")
	}
	return o.ledger.Results(ctx, session.ID)
}

// run executes the transfer. Nothing escapes it: every failure ends up in
// the ledger or the session status, surfaced to callers only through
// polling and the final results query.
func (o *Orchestrator) run(ctx context.Context, session *models.TransferSession, cats []categoryDescriptor, done chan struct{}) {
	defer func() {
		o.running.Store(false)
		close(done)
	}()

	log := o.log.Root(logger.Data{"session_id": session.ID})
	ctx = log.WithContext(ctx)

	// An unreachable or unauthenticated remote fails the whole run before
	// any category is attempted.
	if err := o.client.CheckSession(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			o.stop(session)
			return
		}
		log.Err(err).Error("cloud session check error")
		o.finalize(session, models.TransferSessionFailed)
		return
	}

	env := &runEnv{
		session:   session,
		client:    o.client,
		ledger:    o.ledger,
		household: o.household,
		tracker:   o.tracker,
		depMaps:   map[string]map[int]string{},
	}

	for _, cat := range cats {
		if ctx.Err() != nil {
			o.stop(session)
			return
		}

		category := cat.name
		session.CurrentCategory = &category
		err := o.ledger.UpdateSession(ctx, session, UpdateSessionOptions{
			Columns: []string{"current_category"},
		})
		if err != nil {
			log.Err(err).Error("update current category error")
		}

		err = o.runCategorySafely(ctx, env, cat)
		if errors.Is(err, context.Canceled) {
			o.tracker.FinishCategory()
			o.stop(session)
			return
		}
		if err != nil {
			// Contained: the category keeps whatever partial logs it
			// produced and the run moves on.
			log.Err(err).Data(logger.Data{"category": category}).Error("category transfer error")
		}
		o.tracker.FinishCategory()
	}

	o.finalize(session, models.TransferSessionCompleted)
	o.tracker.Complete()
	log.Info("transfer completed")
}

// stop ends an interrupted run. A user cancel finalizes the session as
// cancelled; a process shutdown leaves it in progress so the next start
// can resume it.
func (o *Orchestrator) stop(session *models.TransferSession) {
	if o.shutdown.Load() {
		return
	}
	o.finalize(session, models.TransferSessionCancelled)
}

// runCategorySafely contains panics from a category so one broken strategy
// cannot take down the rest of the run.
func (o *Orchestrator) runCategorySafely(ctx context.Context, env *runEnv, cat categoryDescriptor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("category %s panic: %v", cat.name, r)
		}
	}()
	return env.runCategory(ctx, cat)
}

// finalize records the session's terminal status. It deliberately uses a
// fresh context: a cancelled run must still be able to persist Cancelled.
func (o *Orchestrator) finalize(session *models.TransferSession, status string) {
	now := time.Now()
	session.Status = status
	session.CompletedAt = &now

	ctx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()

	err := o.ledger.UpdateSession(ctx, session, UpdateSessionOptions{
		Columns: []string{"status", "completed_at"},
	})
	if err != nil {
		o.log.Err(err).Data(logger.Data{"session_id": session.ID, "status": status}).Error("finalize session error")
	}
}
