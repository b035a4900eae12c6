package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/kendall-kelly/shopstore/config"
)

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	t.Setenv("GO_ENV", "test")
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// TestConfig returns a configuration pointing at a fresh sqlite file in the
// test's temporary directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DatabaseURL: filepath.Join(t.TempDir(), "shop_test.db"),
		GoEnv:       "test",
		LogLevel:    "error",
		LogFormat:   "text",
	}
}

// NewTestDB opens an empty sqlite database that is closed when the test ends.
// The schema is not created; callers run store.EnsureSchema themselves.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(TestConfig(t))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := config.CloseDatabase(db); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}
