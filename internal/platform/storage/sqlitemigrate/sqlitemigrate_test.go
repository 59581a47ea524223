package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("inspect table %s: %v", name, err)
	}
	return true
}

func migrationFS(data string) fstest.MapFS {
	return fstest.MapFS{
		"0001_schema.sql": &fstest.MapFile{Data: []byte(data)},
	}
}

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	if err := ApplyMigrations(db, migrationFS("-- +migrate Up\nCREATE TABLE encounters(id TEXT PRIMARY KEY);"), ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("migration rows = %d, want 1", rows)
	}
	if !tableExists(t, db, "encounters") {
		t.Fatal("migrated table is missing")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)
	migration := migrationFS("-- +migrate Up\nCREATE TABLE encounters(id TEXT PRIMARY KEY);")

	if err := ApplyMigrations(db, migration, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(db, migration, ""); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", rows)
	}
}

func TestApplyMigrationsDoesNotRecordFailure(t *testing.T) {
	db := openInMemoryDB(t)

	if err := ApplyMigrations(db, migrationFS("-- +migrate Up\nCREAT table broken(id INT);"), ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("failed migration recorded %d rows, want 0", rows)
	}

	if err := ApplyMigrations(db, migrationFS("-- +migrate Up\nCREATE TABLE fixed(id INT);"), ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if !tableExists(t, db, "fixed") {
		t.Fatal("fixed table is missing")
	}
}

func TestExtractUpMigrationStripsDownSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a(id INT);\n" {
		t.Fatalf("up section = %q", up)
	}
}
