package store

import (
	"reflect"
	"testing"

	"github.com/jacklau/authorship/internal/vectorize"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigration(t *testing.T) {
	db := setupTestDB(t)

	var version int
	if err := db.Conn().QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to read user_version: %v", err)
	}
	if version != currentVersion {
		t.Errorf("expected user_version %d, got %d", currentVersion, version)
	}

	// Running migrations again is a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/cache.db"

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.PutVector("h1", "cat", "madison", vectorize.Vector{1, 2}); err != nil {
		t.Fatalf("PutVector failed: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	vec, ok, err := db.GetVector("h1", "cat")
	if err != nil || !ok {
		t.Fatalf("GetVector after reopen: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(vec, vectorize.Vector{1, 2}) {
		t.Errorf("got %v", vec)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	_, ok, err := db.GetVector("abc", "cat-1")
	if err != nil {
		t.Fatalf("GetVector failed: %v", err)
	}
	if ok {
		t.Fatal("expected miss on empty cache")
	}

	want := vectorize.Vector{0, 3, 0, 17, 1}
	if err := db.PutVector("abc", "cat-1", "hamilton", want); err != nil {
		t.Fatalf("PutVector failed: %v", err)
	}

	got, ok, err := db.GetVector("abc", "cat-1")
	if err != nil {
		t.Fatalf("GetVector failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after PutVector")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetVector = %v, want %v", got, want)
	}

	// Same document under another catalog is a separate entry.
	if _, ok, _ := db.GetVector("abc", "cat-2"); ok {
		t.Error("expected miss for a different catalog")
	}
}

func TestPutVectorReplaces(t *testing.T) {
	db := setupTestDB(t)

	if err := db.PutVector("h", "c", "jj", vectorize.Vector{1, 1}); err != nil {
		t.Fatalf("PutVector failed: %v", err)
	}
	if err := db.PutVector("h", "c", "jj", vectorize.Vector{2, 2, 2}); err != nil {
		t.Fatalf("PutVector failed: %v", err)
	}

	got, _, err := db.GetVector("h", "c")
	if err != nil {
		t.Fatalf("GetVector failed: %v", err)
	}
	if !reflect.DeepEqual(got, vectorize.Vector{2, 2, 2}) {
		t.Errorf("expected replaced vector, got %v", got)
	}
}

func TestStatsAndClear(t *testing.T) {
	db := setupTestDB(t)

	s, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Entries != 0 || s.Bytes != 0 {
		t.Errorf("expected empty stats, got %+v", s)
	}

	_ = db.PutVector("h1", "c1", "a", vectorize.Vector{1, 2, 3})
	_ = db.PutVector("h2", "c1", "b", vectorize.Vector{4, 5, 6})
	_ = db.PutVector("h1", "c2", "a", vectorize.Vector{7})

	s, err = db.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if s.Entries != 3 {
		t.Errorf("Entries = %d, want 3", s.Entries)
	}
	if s.Catalogs != 2 {
		t.Errorf("Catalogs = %d, want 2", s.Catalogs)
	}
	if s.Bytes != 28 {
		t.Errorf("Bytes = %d, want 28", s.Bytes)
	}

	n, err := db.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if _, ok, _ := db.GetVector("h1", "c1"); ok {
		t.Error("expected miss after Clear")
	}
}
