package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/security"
	"timeclock.app/timeclock/store"
	"timeclock.app/timeclock/web/middlewares"
)

var jwtSecret = []byte("test-signing-secret")

// seqClock hands out strictly increasing timestamps so open/close
// pairs order deterministically.
type seqClock struct{ hour int }

func (c *seqClock) Now(ctx context.Context) (string, error) {
	c.hour++
	return fmt.Sprintf("2024-03-01T%02d:00:00", c.hour), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	hash, err := security.HashPassword("password1")
	require.NoError(t, err)

	users := store.NewUserFile(filepath.Join(dir, store.UsersFileName))
	require.NoError(t, users.SaveAll(map[string]store.User{
		"alice": {ID: "u1", Username: "alice", Password: hash, FirstName: "Alice",
			LastName: "Smith", Email: "alice@example.com", Role: core.RoleUser},
		"root": {ID: "u0", Username: "root", Password: hash, FirstName: "Root",
			LastName: "Admin", Email: "root@example.com", Role: core.RoleAdmin},
	}))

	events := store.NewEventFile(filepath.Join(dir, store.EventsFileName))
	clock := &seqClock{}
	ledger := core.NewLedger(events, clock, clock, zap.NewNop())

	r := gin.New()
	RegisterAuth(r.Group("/auth"), users, jwtSecret, zap.NewNop())

	attendance := r.Group("/attendance")
	attendance.Use(middlewares.Authentication(jwtSecret))
	RegisterAttendance(attendance, ledger, zap.NewNop())

	return r
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"username":%q,"password":"password1"}`, username))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/auth/login", "", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "", `{"username":"ghost","password":"password1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/attendance/start", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/attendance/start", "not-a-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShiftFlow(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "alice")

	w := do(r, http.MethodGet, "/attendance/current", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No attendance records found")

	w = do(r, http.MethodPost, "/attendance/start", token, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Shift started")

	w = do(r, http.MethodPost, "/attendance/start", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/attendance/current", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Active shift found")

	w = do(r, http.MethodPost, "/attendance/end", token, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Shift ended")

	w = do(r, http.MethodPost, "/attendance/end", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/attendance/summary?from=2024-03-01&to=2024-03-01&userId=u1", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var summary core.UserSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "u1", summary.UserID)
	require.Len(t, summary.Shifts, 1)
	// Every write attempt consumes a clock tick, including the
	// rejected duplicate start, so the pair spans two ticks.
	assert.Equal(t, 2, summary.TotalHours)
	assert.Equal(t, 0, summary.TotalMinutes)
}

func TestSummaryRequiresRange(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "alice")

	w := do(r, http.MethodGet, "/attendance/summary?from=2024-03-01", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	r := newTestRouter(t)
	userToken := login(t, r, "alice")
	adminToken := login(t, r, "root")

	w := do(r, http.MethodGet, "/attendance/all", userToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/attendance/all", adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminEditAndDelete(t *testing.T) {
	r := newTestRouter(t)
	userToken := login(t, r, "alice")
	adminToken := login(t, r, "root")

	w := do(r, http.MethodPost, "/attendance/start", userToken, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Record core.AttendanceEvent `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodPut, "/attendance/edit/"+created.Record.ID, adminToken,
		`{"type":"out","timestamp":"2024-03-01T18:00:00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPut, "/attendance/edit/"+created.Record.ID, adminToken, `{"type":"out"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/attendance/edit/no-such-id", adminToken,
		`{"type":"out","timestamp":"2024-03-01T18:00:00"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/attendance/delete/"+created.Record.ID, adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/attendance/delete/"+created.Record.ID, adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummaryExport(t *testing.T) {
	r := newTestRouter(t)
	userToken := login(t, r, "alice")
	adminToken := login(t, r, "root")

	do(r, http.MethodPost, "/attendance/start", userToken, "")
	do(r, http.MethodPost, "/attendance/end", userToken, "")

	w := do(r, http.MethodGet, "/attendance/summary/export?from=2024-03-01&to=2024-03-01", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestUserManagement(t *testing.T) {
	r := newTestRouter(t)
	adminToken := login(t, r, "root")
	userToken := login(t, r, "alice")

	w := do(r, http.MethodPost, "/auth/create", userToken,
		`{"id":"u2","username":"bob","password":"pw","firstName":"Bob","lastName":"Jones","email":"bob@example.com","role":"user"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/auth/create", adminToken,
		`{"id":"u2","username":"bob","password":"pw","firstName":"Bob","lastName":"Jones","email":"bob@example.com","role":"user"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = do(r, http.MethodPost, "/auth/create", adminToken,
		`{"id":"u9","username":"bob","password":"pw","firstName":"Bob","lastName":"Jones","email":"bob@example.com","role":"user"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/auth/me", userToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var me UserInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	w = do(r, http.MethodDelete, "/auth/delete/u2", adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/auth/delete/u2", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
