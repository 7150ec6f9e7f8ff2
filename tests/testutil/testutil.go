package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV=test. The config
// loader picks its .env file and database from GO_ENV, so a suite running
// under any other value could be pointed at a real database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("tests require GO_ENV=test, got %q", env)
	}
}
