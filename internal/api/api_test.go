// ABOUTME: End-to-end API tests against a real SQLite store
// ABOUTME: Register/login/resource flows exercised through the full router

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/store"
)

// setupAPI builds a full API handler over a temp SQLite store.
func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	server := NewServer(s, auth.NewService(s), 0)
	return server.Routes()
}

// do performs a request against the handler and decodes the JSON body.
func do(t *testing.T, h http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded),
			"body: %s", rec.Body.String())
	}
	return rec.Code, decoded
}

// registerUser registers a fresh account and returns its bearer token.
func registerUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	status, body := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  "Test User",
		"email":                 email,
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_RegisterLoginTaskFlow(t *testing.T) {
	h := setupAPI(t)

	// Register
	status, body := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  "A",
		"email":                 "a@x.com",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "a@x.com", data["email"])
	assert.NotContains(t, data, "password_hash")
	registerToken := body["access_token"].(string)
	require.NotEmpty(t, registerToken)
	assert.Equal(t, "Bearer", body["token_type"])

	// Login yields a new, different token
	status, body = do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, status)
	loginToken := body["access_token"].(string)
	require.NotEmpty(t, loginToken)
	assert.NotEqual(t, registerToken, loginToken)

	// Create a task
	status, body = do(t, h, http.MethodPost, "/api/tasks", loginToken, map[string]string{
		"title": "Buy milk",
	})
	require.Equal(t, http.StatusCreated, status)
	task := body["data"].(map[string]any)
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, false, task["is_done"])
	taskID := task["id"].(string)

	// The new task is absent from the filtered-done listing
	status, body = do(t, h, http.MethodGet, "/api/tasks?filter[is_done]=true", loginToken, nil)
	require.Equal(t, http.StatusOK, status)
	for _, row := range body["data"].([]any) {
		assert.NotEqual(t, taskID, row.(map[string]any)["id"])
	}

	// ...and present in the not-done listing
	status, body = do(t, h, http.MethodGet, "/api/tasks?filter[is_done]=false", loginToken, nil)
	require.Equal(t, http.StatusOK, status)
	found := false
	for _, row := range body["data"].([]any) {
		if row.(map[string]any)["id"] == taskID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAPI_RegisterValidation(t *testing.T) {
	h := setupAPI(t)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{
			name:  "missing name",
			body:  map[string]string{"email": "a@x.com", "password": "secret1", "password_confirmation": "secret1"},
			field: "name",
		},
		{
			name:  "bad email",
			body:  map[string]string{"name": "A", "email": "not-an-email", "password": "secret1", "password_confirmation": "secret1"},
			field: "email",
		},
		{
			name:  "short password",
			body:  map[string]string{"name": "A", "email": "a@x.com", "password": "abc", "password_confirmation": "abc"},
			field: "password",
		},
		{
			name:  "confirmation mismatch",
			body:  map[string]string{"name": "A", "email": "a@x.com", "password": "secret1", "password_confirmation": "secret2"},
			field: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, h, http.MethodPost, "/api/register", "", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			errs := body["errors"].(map[string]any)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestAPI_RegisterDuplicateEmail(t *testing.T) {
	h := setupAPI(t)
	registerUser(t, h, "dup@x.com")

	status, body := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":                  "B",
		"email":                 "dup@x.com",
		"password":              "secret2",
		"password_confirmation": "secret2",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
}

func TestAPI_LoginFailuresIdentical(t *testing.T) {
	h := setupAPI(t)
	registerUser(t, h, "a@x.com")

	wrongStatus, wrongBody := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password",
	})
	unknownStatus, unknownBody := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "whatever",
	})

	// Same status, same message: no enumeration oracle
	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, wrongStatus, unknownStatus)
	assert.Equal(t, wrongBody, unknownBody)
	assert.Equal(t, "Login information invalid", wrongBody["message"])
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	h := setupAPI(t)

	for _, path := range []string{"/api/user", "/api/projects", "/api/tasks"} {
		status, _ := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, "path %s", path)
	}
}

func TestAPI_ProfileAndLogout(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "me@x.com")

	status, body := do(t, h, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "me@x.com", body["email"])
	assert.NotContains(t, body, "password_hash")

	// Logout revokes the presenting token
	status, _ = do(t, h, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, h, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_ProjectCRUD(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "owner@x.com")

	// Create
	status, body := do(t, h, http.MethodPost, "/api/projects", token, map[string]string{
		"title": "Renovation",
	})
	require.Equal(t, http.StatusCreated, status)
	projectID := body["data"].(map[string]any)["id"].(string)

	// Validation
	status, _ = do(t, h, http.MethodPost, "/api/projects", token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// Show attaches tasks
	status, body = do(t, h, http.MethodGet, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, status)
	shown := body["data"].(map[string]any)
	assert.Equal(t, "Renovation", shown["title"])
	assert.Contains(t, shown, "tasks")

	// Update
	status, body = do(t, h, http.MethodPut, "/api/projects/"+projectID, token, map[string]string{
		"title": "Renovation 2.0",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renovation 2.0", body["data"].(map[string]any)["title"])

	// Delete, then gone
	status, _ = do(t, h, http.MethodDelete, "/api/projects/"+projectID, token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, h, http.MethodGet, "/api/projects/"+projectID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_ProjectOwnership(t *testing.T) {
	h := setupAPI(t)
	ownerToken := registerUser(t, h, "owner@x.com")
	otherToken := registerUser(t, h, "other@x.com")

	status, body := do(t, h, http.MethodPost, "/api/projects", ownerToken, map[string]string{
		"title": "Private plans",
	})
	require.Equal(t, http.StatusCreated, status)
	projectID := body["data"].(map[string]any)["id"].(string)

	// Reads are shared across authenticated tenants
	status, _ = do(t, h, http.MethodGet, "/api/projects/"+projectID, otherToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Mutations by a non-owner read as not-found, not forbidden
	status, _ = do(t, h, http.MethodPut, "/api/projects/"+projectID, otherToken, map[string]string{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, h, http.MethodDelete, "/api/projects/"+projectID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Still intact for the owner
	status, body = do(t, h, http.MethodGet, "/api/projects/"+projectID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Private plans", body["data"].(map[string]any)["title"])
}

func TestAPI_TaskOwnershipAndPartialUpdate(t *testing.T) {
	h := setupAPI(t)
	creatorToken := registerUser(t, h, "creator@x.com")
	otherToken := registerUser(t, h, "other@x.com")

	status, body := do(t, h, http.MethodPost, "/api/tasks", creatorToken, map[string]string{
		"title": "Water plants",
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := body["data"].(map[string]any)["id"].(string)

	// Partial update: flip is_done, title untouched
	status, body = do(t, h, http.MethodPut, "/api/tasks/"+taskID, creatorToken, map[string]any{
		"is_done": true,
	})
	require.Equal(t, http.StatusOK, status)
	updated := body["data"].(map[string]any)
	assert.Equal(t, true, updated["is_done"])
	assert.Equal(t, "Water plants", updated["title"])

	// Non-creator mutations land on 404
	status, _ = do(t, h, http.MethodPut, "/api/tasks/"+taskID, otherToken, map[string]any{
		"is_done": false,
	})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = do(t, h, http.MethodDelete, "/api/tasks/"+taskID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Creator can delete
	status, _ = do(t, h, http.MethodDelete, "/api/tasks/"+taskID, creatorToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAPI_TaskWithInvalidProject(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "a@x.com")

	status, body := do(t, h, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Orphan",
		"project_id": "no-such-project",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "project_id")
}

func TestAPI_ListQueryValidation(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "a@x.com")

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown filter", path: "/api/tasks?filter[title]=x"},
		{name: "bad filter value", path: "/api/tasks?filter[is_done]=maybe"},
		{name: "unknown sort", path: "/api/tasks?sort=creator_id"},
		{name: "unknown include", path: "/api/projects?include=owner"},
		{name: "filter not allowed on projects", path: "/api/projects?filter[is_done]=true"},
		{name: "zero page", path: "/api/tasks?page=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, h, http.MethodGet, tt.path, token, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
		})
	}
}

func TestAPI_ProjectListIncludeTasks(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "a@x.com")

	status, body := do(t, h, http.MethodPost, "/api/projects", token, map[string]string{
		"title": "With tasks",
	})
	require.Equal(t, http.StatusCreated, status)
	projectID := body["data"].(map[string]any)["id"].(string)

	status, _ = do(t, h, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Inside",
		"project_id": projectID,
	})
	require.Equal(t, http.StatusCreated, status)

	// Without the include, no tasks key appears
	status, body = do(t, h, http.MethodGet, "/api/projects", token, nil)
	require.Equal(t, http.StatusOK, status)
	row := body["data"].([]any)[0].(map[string]any)
	assert.NotContains(t, row, "tasks")

	// With it, the relation is attached
	status, body = do(t, h, http.MethodGet, "/api/projects?include=tasks", token, nil)
	require.Equal(t, http.StatusOK, status)
	row = body["data"].([]any)[0].(map[string]any)
	require.Contains(t, row, "tasks")
	tasks := row["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Inside", tasks[0].(map[string]any)["title"])
}

func TestAPI_TaskListSortAndMeta(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "a@x.com")

	for _, title := range []string{"bravo", "alpha", "charlie"} {
		status, _ := do(t, h, http.MethodPost, "/api/tasks", token, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := do(t, h, http.MethodGet, "/api/tasks?sort=title", token, nil)
	require.Equal(t, http.StatusOK, status)

	var titles []string
	for _, row := range body["data"].([]any) {
		titles = append(titles, row.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, titles)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["current_page"])
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(1), meta["last_page"])
	assert.Equal(t, float64(15), meta["per_page"])
}

func TestAPI_ProjectDeleteCascades(t *testing.T) {
	h := setupAPI(t)
	token := registerUser(t, h, "a@x.com")

	status, body := do(t, h, http.MethodPost, "/api/projects", token, map[string]string{
		"title": "Doomed",
	})
	require.Equal(t, http.StatusCreated, status)
	projectID := body["data"].(map[string]any)["id"].(string)

	status, body = do(t, h, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Goes with it",
		"project_id": projectID,
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := body["data"].(map[string]any)["id"].(string)

	status, _ = do(t, h, http.MethodDelete, "/api/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusNoContent, status)

	// The project's tasks went with it
	status, _ = do(t, h, http.MethodGet, "/api/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Health(t *testing.T) {
	h := setupAPI(t)

	status, body := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
