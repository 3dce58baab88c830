package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/hauskeep/hauskeep/pkg/migrations"
	"github.com/hauskeep/hauskeep/pkg/models"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// fakeCloud is an in-memory stand-in for the cloud API. Configure failure
// behavior before starting a transfer; the handler itself is safe for the
// strictly sequential calls the orchestrator makes.
type fakeCloud struct {
	srv *httptest.Server

	mu     sync.Mutex
	nextID int
	store  map[string][]map[string]interface{}
	posts  map[string][]map[string]interface{}

	failPaths map[string]string
	failNames map[string]string
	authFail  bool
	delay     time.Duration
}

func newFakeCloud(t *testing.T) *fakeCloud {
	t.Helper()

	fc := &fakeCloud{
		store:     map[string][]map[string]interface{}{},
		posts:     map[string][]map[string]interface{}{},
		failPaths: map[string]string{},
		failNames: map[string]string{},
	}
	fc.srv = httptest.NewServer(http.HandlerFunc(fc.handle))
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeCloud) seed(path string, items ...map[string]interface{}) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.store[path] = append(fc.store[path], items...)
}

// postedNames returns the name field of every create request sent to a
// path, in order.
func (fc *fakeCloud) postedNames(path string) []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	names := []string{}
	for _, body := range fc.posts[path] {
		if name, ok := body["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

func (fc *fakeCloud) postCount(path string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.posts[path])
}

func (fc *fakeCloud) lastPost(path string) map[string]interface{} {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	posts := fc.posts[path]
	if len(posts) == 0 {
		return nil
	}
	return posts[len(posts)-1]
}

func (fc *fakeCloud) handle(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	delay := fc.delay
	authFail := fc.authFail
	fc.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	path := r.URL.Path
	switch path {
	case "/auth/login", "/auth/register", "/auth/refresh":
		if authFail {
			writeCloudError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeCloudJSON(w, map[string]interface{}{
			"email":         "user@example.com",
			"access_token":  "access-token",
			"refresh_token": "refresh-token",
		})
		return
	case "/auth/session":
		if authFail {
			writeCloudError(w, http.StatusUnauthorized, "session expired")
			return
		}
		writeCloudJSON(w, map[string]interface{}{"email": "user@example.com"})
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if msg, ok := fc.failPaths[path]; ok {
		writeCloudError(w, http.StatusBadRequest, msg)
		return
	}

	if r.Method == http.MethodGet {
		items := fc.store[path]
		if items == nil {
			items = []map[string]interface{}{}
		}
		writeCloudJSON(w, items)
		return
	}

	body := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeCloudError(w, http.StatusBadRequest, "malformed body")
		return
	}

	if name, ok := fc.failNames[path]; ok {
		if posted, _ := body["name"].(string); posted == name {
			writeCloudError(w, http.StatusBadRequest, "rejected: "+name)
			return
		}
	}

	fc.nextID++
	id := fmt.Sprintf("remote-%d", fc.nextID)

	item := map[string]interface{}{"id": id}
	for k, v := range body {
		item[k] = v
	}
	fc.store[path] = append(fc.store[path], item)
	fc.posts[path] = append(fc.posts[path], body)

	writeCloudJSON(w, map[string]interface{}{"id": id})
}

func writeCloudJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeCloudError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"message": msg},
	})
}

// waitForSession polls until the session leaves in_progress and the
// background run has fully stopped.
func waitForSession(t *testing.T, o *Orchestrator, sessionID string) *models.TransferSession {
	t.Helper()

	var session *models.TransferSession
	require.Eventually(t, func() bool {
		s, err := o.ledger.Session(context.Background(), sessionID)
		if err != nil || s == nil || s.Status == models.TransferSessionInProgress {
			return false
		}
		session = s
		return !o.running.Load()
	}, 5*time.Second, 10*time.Millisecond)

	return session
}

func insertLocation(t *testing.T, db *bun.DB, name string) *models.Location {
	t.Helper()

	location := &models.Location{
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := db.NewInsert().Model(location).Exec(context.Background())
	require.NoError(t, err)
	return location
}
