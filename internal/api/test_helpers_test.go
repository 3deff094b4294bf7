package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/kepler/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testApp struct {
	app     *fiber.App
	handler *Handler
}

func newTestApp(t *testing.T, options HandlerOptions) testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "kepler-api.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	if options.Secret == "" {
		options.Secret = testSecret
	}
	options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	handler.accounts.WithBcryptCost(bcrypt.MinCost)

	app := NewApp(handler, ServerOptions{BodyLimit: 1 << 20})
	return testApp{app: app, handler: handler}
}

type testResponse struct {
	status int
	header http.Header
	body   string
}

func (response testResponse) jsonBody(t *testing.T) map[string]any {
	t.Helper()

	var decoded map[string]any
	if err := json.Unmarshal([]byte(response.body), &decoded); err != nil {
		t.Fatalf("decode body %q: %v", response.body, err)
	}
	return decoded
}

func (response testResponse) errorMessage(t *testing.T) string {
	t.Helper()

	message, _ := response.jsonBody(t)["error"].(string)
	return message
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, body string, token string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return testResponse{status: response.StatusCode, header: response.Header, body: string(raw)}
}

func signupAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	signup := doRequest(t, app, http.MethodPost, "/api/signup",
		`{"email":"`+email+`","password":"Biscuit2024","name":"Owner"}`, "")
	if signup.status != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, signup.status, signup.body)
	}

	login := doRequest(t, app, http.MethodPost, "/api/auth/login",
		`{"email":"`+email+`","password":"Biscuit2024"}`, "")
	if login.status != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, login.status, login.body)
	}
	token, _ := login.jsonBody(t)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: expected token in %s", email, login.body)
	}
	return token
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
