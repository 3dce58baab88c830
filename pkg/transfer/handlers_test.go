package transfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/auth"
	"github.com/hauskeep/hauskeep/pkg/binder"
	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/errcodes"
	"github.com/hauskeep/hauskeep/pkg/models"
)

func setupTransferServer(t *testing.T, db *bun.DB, o *Orchestrator) (*echo.Echo, string) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	authService := auth.NewService(db, "test-secret")
	user, err := authService.CreateUser(context.Background(), "admin", "password")
	require.NoError(t, err)
	token, err := authService.GenerateToken(user)
	require.NoError(t, err)

	RegisterRoutes(e, o, auth.NewMiddleware(authService))

	return e, token
}

func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAvailableEndpoint(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, _ := setupTransferServer(t, db, o)

	// No auth required for the capability probe.
	rec := doRequest(e, http.MethodGet, "/transfer/available", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())
}

func TestTransferEndpointsRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, _ := setupTransferServer(t, db, o)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/transfer/authenticate"},
		{http.MethodGet, "/transfer/summary"},
		{http.MethodGet, "/transfer/session"},
		{http.MethodPost, "/transfer/start"},
		{http.MethodGet, "/transfer/progress"},
		{http.MethodPost, "/transfer/cancel"},
		{http.MethodGet, "/transfer/results"},
	} {
		rec := doRequest(e, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	db := setupTestDB(t)
	insertLocation(t, db, "Kitchen")

	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	rec := doRequest(e, http.MethodGet, "/transfer/summary", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"locations"`)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestSessionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	rec := doRequest(e, http.MethodGet, "/transfer/session", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_incomplete_session":false}`, rec.Body.String())

	session, err := NewService(db).CreateSession(context.Background(), false)
	require.NoError(t, err)

	rec = doRequest(e, http.MethodGet, "/transfer/session", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"has_incomplete_session":true`)
	assert.Contains(t, rec.Body.String(), session.ID)
}

func TestAuthenticateEndpointReportsCloudFailure(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	fc.authFail = true

	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	body := `{"email":"user@example.com","password":"wrong","is_registration":false}`
	rec := doRequest(e, http.MethodPost, "/transfer/authenticate", token, body)

	// Cloud rejection is a 200 with success=false, not a request error.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthenticateEndpointSuccess(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)

	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	body := `{"email":"user@example.com","password":"secret","is_registration":false}`
	rec := doRequest(e, http.MethodPost, "/transfer/authenticate", token, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"cloud_user_email":"user@example.com"`)
}

func TestProgressEndpointNoContent(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	rec := doRequest(e, http.MethodGet, "/transfer/progress", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStartProgressResultsFlow(t *testing.T) {
	db := setupTestDB(t)
	insertLocation(t, db, "Kitchen")

	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	require.NoError(t, o.Authenticate(context.Background(), "user@example.com", "secret", false, "", ""))

	rec := doRequest(e, http.MethodPost, "/transfer/start", token, `{"include_history":false,"resume":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id"`)

	progress, ok := o.Progress()
	require.True(t, ok)
	session := waitForSession(t, o, progress.SessionID)
	require.Equal(t, models.TransferSessionCompleted, session.Status)

	rec = doRequest(e, http.MethodGet, "/transfer/progress", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overall_percent":100`)

	rec = doRequest(e, http.MethodGet, "/transfer/results", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"locations"`)
	assert.Contains(t, rec.Body.String(), `"created_count":1`)
}

func TestStartConflictResponse(t *testing.T) {
	db := setupTestDB(t)
	insertLocation(t, db, "Kitchen")

	fc := newFakeCloud(t)
	fc.delay = 50 * time.Millisecond

	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	require.NoError(t, o.Authenticate(context.Background(), "user@example.com", "secret", false, "", ""))

	rec := doRequest(e, http.MethodPost, "/transfer/start", token, `{"include_history":false,"resume":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPost, "/transfer/start", token, `{"include_history":false,"resume":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	progress, ok := o.Progress()
	require.True(t, ok)
	waitForSession(t, o, progress.SessionID)
}

func TestStartStorageErrorIsServerError(t *testing.T) {
	authDB := setupTestDB(t)
	db := setupTestDB(t)

	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, authDB, o)

	// With the orchestrator's store gone its session writes fail; that is
	// a server fault, not an authorization one.
	require.NoError(t, db.Close())

	rec := doRequest(e, http.MethodPost, "/transfer/start", token, `{"include_history":false,"resume":false}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStartResumeUnauthorizedWhenRestoreFails(t *testing.T) {
	db := setupTestDB(t)

	svc := NewService(db)
	session, err := svc.CreateSession(context.Background(), false)
	require.NoError(t, err)
	stale := "stale-refresh-token"
	session.CloudRefreshToken = &stale
	err = svc.UpdateSession(context.Background(), session, UpdateSessionOptions{Columns: []string{"cloud_refresh_token"}})
	require.NoError(t, err)

	fc := newFakeCloud(t)
	fc.authFail = true

	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	rec := doRequest(e, http.MethodPost, "/transfer/start", token, `{"include_history":false,"resume":true}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestCancelEndpoint(t *testing.T) {
	db := setupTestDB(t)
	fc := newFakeCloud(t)
	o := NewOrchestrator(db, cloud.New(fc.srv.URL))
	e, token := setupTransferServer(t, db, o)

	rec := doRequest(e, http.MethodPost, "/transfer/cancel", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
