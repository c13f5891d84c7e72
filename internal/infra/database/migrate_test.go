package database

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestMigrate_InvalidSource(t *testing.T) {
	err := Migrate("postgres://u:p@localhost:1/db?sslmode=disable", "file:///does/not/exist", zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
