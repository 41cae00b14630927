package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userSeq atomic.Int64

type testEnv struct {
	t   *testing.T
	db  *gorm.DB
	srv *Server
	app *fiber.App
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:                  "test",
		JWTSecret:            "test-secret-key-12345678901234567890123456789012",
		JWTIssuer:            "lostfound-api",
		JWTAudience:          "lostfound-client",
		DBDriver:             "sqlite",
		DBSQLitePath:         filepath.Join(t.TempDir(), "server.db"),
		ClaimRateLimit:       10,
		ClaimRateLimitWindow: 60,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := testConfig(t)
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return &testEnv{t: t, db: db, srv: srv, app: srv.App()}
}

func (e *testEnv) user(role models.Role) *models.User {
	e.t.Helper()
	n := userSeq.Add(1)
	u := &models.User{
		Username: fmt.Sprintf("member%d", n),
		Email:    fmt.Sprintf("member%d@example.com", n),
		Password: "hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(e.t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) item(poster *models.User, itemType models.ItemType) *models.Item {
	e.t.Helper()
	it := &models.Item{
		ItemType:        itemType,
		Status:          models.InitialStatus(itemType),
		ModerationState: models.ModerationStateNone,
		Title:           "Blue umbrella",
		PostedByID:      poster.ID,
	}
	require.NoError(e.t, e.db.Create(it).Error)
	return it
}

func (e *testEnv) token(u *models.User) string {
	e.t.Helper()
	tok, err := e.srv.verifier.Issue(u.ID, time.Hour)
	require.NoError(e.t, err)
	return tok
}

// do sends a JSON request as u (nil for anonymous) and decodes the response into out.
func (e *testEnv) do(method, path string, u *models.User, body any, out any) int {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if u != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+e.token(u))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) expectError(method, path string, u *models.User, body any, status int, code string) {
	e.t.Helper()
	var resp models.ErrorResponse
	got := e.do(method, path, u, body, &resp)
	require.Equal(e.t, status, got, "body: %+v", resp)
	require.Equal(e.t, code, resp.Code)
}
