package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/0xmhha/tenderly-go/client"
)

// Test credentials used by the mock API server
const (
	TestAccount   = "test-account"
	TestProject   = "test-project"
	TestAccessKey = "test-key"
)

// NewTestLogger creates a test logger that doesn't output to console
func NewTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}
	return logger
}

// NewServer starts a mock Tenderly API server and returns a router scoped to
// the project prefix plus a client pointed at it. Register handlers on the
// router with project-relative paths ("/simulate", "/vnets/{id}", ...).
// The server is shut down via t.Cleanup.
func NewServer(t *testing.T) (chi.Router, *client.Client) {
	t.Helper()

	router := chi.NewRouter()
	root := chi.NewRouter()
	root.Mount("/account/"+TestAccount+"/project/"+TestProject, router)

	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(&client.Config{
		Account:   TestAccount,
		Project:   TestProject,
		AccessKey: TestAccessKey,
		BaseURL:   srv.URL,
		Logger:    zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return router, c
}

// JSON writes a canned JSON response with the given status
func JSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
