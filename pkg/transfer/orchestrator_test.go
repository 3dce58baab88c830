package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/household"
	"github.com/hauskeep/hauskeep/pkg/models"
)

func TestTransferCreatesAndSkips(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "A")
	insertLocation(t, db, "B")
	insertLocation(t, db, "C")

	fc := newFakeCloud(t)
	fc.seed("/locations", map[string]interface{}{"id": "existing-b", "name": "B"})

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	err := o.Authenticate(ctx, "user@example.com", "secret", false, "", "")
	require.NoError(t, err)

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)

	session := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, session.Status)

	results, err := o.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, household.CategoryLocations, results[0].Category)
	assert.Equal(t, 2, results[0].CreatedCount)
	assert.Equal(t, 1, results[0].SkippedCount)
	assert.Equal(t, 0, results[0].FailedCount)

	// Only A and C were actually sent; B matched the existing remote item.
	assert.Equal(t, []string{"A", "C"}, fc.postedNames("/locations"))
}

func TestTransferSecondRunSkipsEverything(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "Kitchen")
	insertLocation(t, db, "Garage")

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)
	require.Equal(t, 2, fc.postCount("/locations"))

	sessionID, err = o.Start(ctx, false, false)
	require.NoError(t, err)
	session = waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, session.Status)

	// No new remote entities on the second run.
	assert.Equal(t, 2, fc.postCount("/locations"))

	results, err := o.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].CreatedCount)
	assert.Equal(t, 2, results[0].SkippedCount)
}

func TestTransferResumeSkipsLoggedItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "A")
	insertLocation(t, db, "B")
	insertLocation(t, db, "C")

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	// Simulate a run that crashed after transferring only A.
	svc := NewService(db)
	session, err := svc.CreateSession(ctx, false)
	require.NoError(t, err)

	locations, err := household.NewService(db).ListLocations(ctx)
	require.NoError(t, err)
	remoteID := "remote-a"
	err = svc.AppendItemLog(ctx, &models.TransferItemLog{
		SessionID: session.ID,
		Category:  household.CategoryLocations,
		SourceID:  locations[0].ID,
		RemoteID:  &remoteID,
		Name:      "A",
		Status:    models.TransferItemCreated,
	})
	require.NoError(t, err)
	fc.seed("/locations", map[string]interface{}{"id": remoteID, "name": "A"})

	sessionID, err := o.Start(ctx, false, true)
	require.NoError(t, err)
	assert.Equal(t, session.ID, sessionID)

	finished := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, finished.Status)

	// A was already in the ledger, so only B and C were processed.
	assert.Equal(t, []string{"B", "C"}, fc.postedNames("/locations"))

	results, err := o.Results(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].CreatedCount)
}

func TestTransferResumeRestoresCredential(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	svc := NewService(db)
	session, err := svc.CreateSession(ctx, false)
	require.NoError(t, err)
	token := "stored-refresh-token"
	session.CloudRefreshToken = &token
	err = svc.UpdateSession(ctx, session, UpdateSessionOptions{Columns: []string{"cloud_refresh_token"}})
	require.NoError(t, err)

	sessionID, err := o.Start(ctx, false, true)
	require.NoError(t, err)

	finished := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, finished.Status)
	assert.Equal(t, "user@example.com", client.Email())
}

func TestTransferRemapsForeignKeys(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	good := insertLocation(t, db, "Pantry")
	broken := insertLocation(t, db, "Broken")

	hh := household.NewService(db)
	require.NoError(t, hh.CreateProduct(ctx, &models.Product{Name: "Flour", LocationID: &good.ID}))
	require.NoError(t, hh.CreateProduct(ctx, &models.Product{Name: "Sugar", LocationID: &broken.ID}))

	fc := newFakeCloud(t)
	fc.failNames["/locations"] = "Broken"

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, session.Status)

	// Flour carries the remote id of Pantry; Sugar's reference is absent
	// because Broken never made it to the remote.
	remoteLocation := svcRemoteID(t, db, sessionID, household.CategoryLocations, good.ID)

	posts := fc.posts["/products"]
	require.Len(t, posts, 2)
	assert.Equal(t, remoteLocation, posts[0]["location_id"])
	assert.NotContains(t, posts[1], "location_id")
}

func svcRemoteID(t *testing.T, db *bun.DB, sessionID, category string, sourceID int) string {
	t.Helper()

	m, err := NewService(db).RemoteIDMap(context.Background(), sessionID, category)
	require.NoError(t, err)
	remote, ok := m[sourceID]
	require.True(t, ok)
	return remote
}

func TestTransferCategoryIsolation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "Kitchen")

	hh := household.NewService(db)
	require.NoError(t, hh.CreateChore(ctx, &models.Chore{Name: "Vacuum", PeriodType: models.ChorePeriodWeekly}))

	fc := newFakeCloud(t)
	fc.failPaths["/locations"] = "locations endpoint down"

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)

	// The locations failure is contained; the run still completes and the
	// chores category transfers normally.
	assert.Equal(t, models.TransferSessionCompleted, session.Status)
	assert.Equal(t, []string{"Vacuum"}, fc.postedNames("/chores"))
}

func TestTransferFailsWhenRemoteUnreachable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "Kitchen")

	fc := newFakeCloud(t)
	fc.authFail = true

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)

	assert.Equal(t, models.TransferSessionFailed, session.Status)
	assert.Equal(t, 0, fc.postCount("/locations"))
}

func TestTransferCancellation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		insertLocation(t, db, "Location "+string(rune('A'+i)))
	}

	fc := newFakeCloud(t)
	fc.delay = 25 * time.Millisecond

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return fc.postCount("/locations") >= 2
	}, 5*time.Second, 5*time.Millisecond)
	o.Cancel()

	session := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCancelled, session.Status)

	// Every ledger row is fully formed and nothing beyond the cancellation
	// point was attempted.
	logs, err := NewService(db).CategoryLogs(ctx, sessionID, household.CategoryLocations)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
	assert.Less(t, len(logs), 20)
	for _, log := range logs {
		assert.Contains(t, []string{models.TransferItemCreated, models.TransferItemSkipped, models.TransferItemFailed}, log.Status)
		assert.NotEmpty(t, log.Name)
	}
}

func TestTransferBrokenCategoryKeepsProgressConsistent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "Kitchen")

	// Sabotage one category's local reads. Its failure is contained and
	// must not corrupt the progress report for the others.
	_, err := db.ExecContext(ctx, "DROP TABLE quantity_units")
	require.NoError(t, err)

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	progress, ok := o.Progress()
	require.True(t, ok)

	// Every completed category appears exactly once; the broken one never
	// started, so it is absent rather than duplicating its predecessor.
	seen := map[string]int{}
	for _, summary := range progress.CompletedCategories {
		seen[summary.Category]++
	}
	for category, count := range seen {
		assert.Equal(t, 1, count, category)
	}
	assert.NotContains(t, seen, household.CategoryQuantityUnits)
	assert.Contains(t, seen, household.CategoryLocations)
	assert.Len(t, progress.CompletedCategories, progress.TotalCategories-1)
}

func TestShutdownLeavesSessionResumable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		insertLocation(t, db, "Location "+string(rune('A'+i)))
	}

	fc := newFakeCloud(t)
	fc.delay = 25 * time.Millisecond

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return fc.postCount("/locations") >= 2
	}, 5*time.Second, 5*time.Millisecond)

	shutdownCtx, done := context.WithTimeout(ctx, 5*time.Second)
	defer done()
	o.Shutdown(shutdownCtx)

	// The run has drained and the session is still open for resume.
	assert.False(t, o.running.Load())
	session, err := NewService(db).Session(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferSessionInProgress, session.Status)

	fc.mu.Lock()
	fc.delay = 0
	fc.mu.Unlock()

	// Resuming picks the same session back up and finishes it without
	// repeating what already made it across.
	resumedID, err := o.Start(ctx, false, true)
	require.NoError(t, err)
	require.Equal(t, sessionID, resumedID)

	finished := waitForSession(t, o, sessionID)
	assert.Equal(t, models.TransferSessionCompleted, finished.Status)
	assert.Equal(t, 10, fc.postCount("/locations"))
}

func TestTransferRejectsConcurrentStart(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertLocation(t, db, "Kitchen")

	fc := newFakeCloud(t)
	fc.delay = 50 * time.Millisecond

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)

	_, err = o.Start(ctx, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	waitForSession(t, o, sessionID)
}

func TestTransferProgressMonotonic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertLocation(t, db, "Location "+string(rune('A'+i)))
	}
	hh := household.NewService(db)
	require.NoError(t, hh.CreateChore(ctx, &models.Chore{Name: "Vacuum", PeriodType: models.ChorePeriodWeekly}))

	fc := newFakeCloud(t)
	fc.delay = 5 * time.Millisecond

	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	_, ok := o.Progress()
	assert.False(t, ok)

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)

	last := float64(-1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			progress, ok := o.Progress()
			if ok {
				if progress.OverallPercent < last {
					t.Errorf("progress went backwards: %f -> %f", last, progress.OverallPercent)
					return
				}
				last = progress.OverallPercent
				if progress.OverallPercent == 100 {
					return
				}
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progress never reached 100")
	}

	progress, ok := o.Progress()
	require.True(t, ok)
	assert.Equal(t, float64(100), progress.OverallPercent)
	assert.Equal(t, progress.TotalCategories, len(progress.CompletedCategories))
}

func TestTransferChoreLogsBatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	hh := household.NewService(db)
	chore := &models.Chore{Name: "Water plants", PeriodType: models.ChorePeriodDaily}
	require.NoError(t, hh.CreateChore(ctx, chore))

	for i := 0; i < 3; i++ {
		log := &models.ChoreLog{ChoreID: chore.ID, DoneAt: time.Now().Add(-time.Duration(i) * 24 * time.Hour)}
		_, err := db.NewInsert().Model(log).Exec(ctx)
		require.NoError(t, err)
	}

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, true, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	// One call for the whole batch, three ledger rows.
	assert.Equal(t, 1, fc.postCount("/chore-logs/batch"))
	logs, err := NewService(db).CategoryLogs(ctx, sessionID, household.CategoryChoreLogs)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	for _, log := range logs {
		assert.Equal(t, models.TransferItemCreated, log.Status)
	}
}

func TestTransferSkipsHistoryByDefault(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	hh := household.NewService(db)
	chore := &models.Chore{Name: "Water plants", PeriodType: models.ChorePeriodDaily}
	require.NoError(t, hh.CreateChore(ctx, chore))
	log := &models.ChoreLog{ChoreID: chore.ID, DoneAt: time.Now()}
	_, err := db.NewInsert().Model(log).Exec(ctx)
	require.NoError(t, err)

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	assert.Equal(t, 0, fc.postCount("/chore-logs/batch"))
}

func TestTransferHomeProfileSingleton(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	profile := &models.HomeProfile{Name: "Home Sweet Home", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err := db.NewInsert().Model(profile).Exec(ctx)
	require.NoError(t, err)
	utility := &models.HomeUtility{HomeProfileID: profile.ID, Name: "Electric"}
	_, err = db.NewInsert().Model(utility).Exec(ctx)
	require.NoError(t, err)

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	session := waitForSession(t, o, sessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	assert.Equal(t, 1, fc.postCount("/home"))
	assert.Equal(t, []string{"Electric"}, fc.postedNames("/home/utilities"))

	logs, err := NewService(db).CategoryLogs(ctx, sessionID, household.CategoryHomeProfile)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.TransferItemCreated, logs[0].Status)
}

func TestStartFreshCancelsOtherSessions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	svc := NewService(db)
	stale, err := svc.CreateSession(ctx, false)
	require.NoError(t, err)

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)
	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	sessionID, err := o.Start(ctx, false, false)
	require.NoError(t, err)
	require.NotEqual(t, stale.ID, sessionID)
	waitForSession(t, o, sessionID)

	reloaded, err := svc.Session(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferSessionCancelled, reloaded.Status)
}

func TestAuthenticatePersistsCredential(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	svc := NewService(db)
	session, err := svc.CreateSession(ctx, false)
	require.NoError(t, err)

	fc := newFakeCloud(t)
	client := cloud.New(fc.srv.URL)
	o := NewOrchestrator(db, client)

	require.NoError(t, o.Authenticate(ctx, "user@example.com", "secret", false, "", ""))

	reloaded, err := svc.Session(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CloudRefreshToken)
	assert.Equal(t, "refresh-token", *reloaded.CloudRefreshToken)
	require.NotNil(t, reloaded.CloudAccountEmail)
	assert.Equal(t, "user@example.com", *reloaded.CloudAccountEmail)
}
