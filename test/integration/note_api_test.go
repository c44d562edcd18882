package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notescraft-be/internal/bootstrap"
	"notescraft-be/internal/config"
	"notescraft-be/internal/dto"
	"notescraft-be/internal/server"
	"notescraft-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the serverutils response shape with a raw data payload.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Skipf("Skipping integration test, DB unavailable: %v", err)
	}
	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		t.Skip("Skipping integration test, DB not reachable")
	}

	container := bootstrap.NewContainer(db, cfg)
	return server.New(cfg, container).GetApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 15000)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

func TestNoteAPILifecycle(t *testing.T) {
	app := setupApp(t)

	email := fmt.Sprintf("it-%d@notescraft.test", time.Now().UnixNano())

	// Register and log in.
	resp, _ := doJSON(t, app, "POST", "/api/auth/v1/register", "", dto.RegisterRequest{
		Email:    email,
		Password: "integration-pass",
		FullName: "Integration Tester",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, "POST", "/api/auth/v1/login", "", dto.LoginRequest{
		Email:    email,
		Password: "integration-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.AccessToken)
	token := login.AccessToken

	// Create a note.
	resp, env = doJSON(t, app, "POST", "/api/note/v1", token, dto.CreateNoteRequest{Title: "Integration Note"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CreateNoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// It shows up on the home screen.
	resp, env = doJSON(t, app, "GET", "/api/note/v1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ListNotesResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	found := false
	for _, n := range list.Notes {
		if n.Id == created.Id {
			found = true
			assert.Equal(t, "Integration Note", n.Title)
			assert.Equal(t, 1, n.SectionCount)
		}
	}
	assert.True(t, found, "created note missing from list")

	// Full document fetch.
	resp, env = doJSON(t, app, "GET", "/api/note/v1/"+created.Id.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var show dto.ShowNoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &show))
	assert.Equal(t, "Integration Note", show.Note.Title)
	require.Len(t, show.Note.Sections, 1)
	assert.Equal(t, "Introduction", show.Note.Sections[0].Title)

	// Markdown export.
	resp, env = doJSON(t, app, "GET", "/api/note/v1/"+created.Id.String()+"/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var export dto.ExportNoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &export))
	assert.Contains(t, export.Markdown, "# Integration Note")

	// Delete refuses without confirmation.
	resp, _ = doJSON(t, app, "DELETE", "/api/note/v1/"+created.Id.String(), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/note/v1/"+created.Id.String()+"?confirm=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/note/v1/"+created.Id.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNoteAPIRejectsAnonymous(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/note/v1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
