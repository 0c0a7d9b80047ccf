package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestMigrateNilDatabaseIsNoop(t *testing.T) {
	for _, cmd := range []string{"up", "down", "status", "bogus"} {
		if err := Migrate(context.Background(), nil, cmd); err != nil {
			t.Fatalf("%s: expected no-op, got %v", cmd, err)
		}
	}
}

func TestEmbeddedMigrationsAreOrderedGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	want := []string{"00001_users.sql", "00002_documents.sql", "00003_ingestion_jobs.sql"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Fatalf("migration %d: got %s want %s", i, e.Name(), want[i])
		}
		raw, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s lacks goose annotations", e.Name())
		}
	}
}
