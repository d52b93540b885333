package sqlite

import "testing"

// Tests use ":memory:" — a fresh, isolated database per test that vanishes
// when the connection closes. Migrations run in New, so every test starts
// with the full schema and no data.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
