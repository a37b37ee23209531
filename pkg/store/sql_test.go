package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

type recordedExec struct {
	query string
	args  []driver.NamedValue
}

type fakeRowsResult struct {
	columns []string
	rows    [][]driver.Value
}

type fakeSQLRecorder struct {
	mu sync.Mutex

	execs   []recordedExec
	queries []string

	rowsAffected   int64
	rowsErr        error
	queryResponses []fakeRowsResult
}

type fakeSQLResult struct {
	rows int64
	err  error
}

func (r fakeSQLResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeSQLResult) RowsAffected() (int64, error) { return r.rows, r.err }

func (r *fakeSQLRecorder) recordExec(query string, args []driver.NamedValue) driver.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs = append(r.execs, recordedExec{query: normalizeQuery(query), args: append([]driver.NamedValue(nil), args...)})
	return fakeSQLResult{rows: r.rowsAffected, err: r.rowsErr}
}

func (r *fakeSQLRecorder) recordQuery(query string) fakeRowsResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, normalizeQuery(query))
	if len(r.queryResponses) == 0 {
		return fakeRowsResult{columns: []string{"item", "created_at", "expires_at"}}
	}
	resp := r.queryResponses[0]
	r.queryResponses = r.queryResponses[1:]
	return resp
}

type fakeSQLDriver struct{}

var (
	fakeSQLRegisterOnce sync.Once
	fakeSQLMu           sync.Mutex
	fakeSQLRecorders    = map[string]*fakeSQLRecorder{}
)

func (fakeSQLDriver) Open(name string) (driver.Conn, error) {
	fakeSQLMu.Lock()
	rec := fakeSQLRecorders[name]
	fakeSQLMu.Unlock()
	if rec == nil {
		return nil, fmt.Errorf("unknown fake db name: %s", name)
	}
	return &fakeSQLConn{rec: rec}, nil
}

type fakeSQLConn struct {
	rec *fakeSQLRecorder
}

func (c *fakeSQLConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeSQLStmt{rec: c.rec, query: query}, nil
}

func (c *fakeSQLConn) Close() error { return nil }

func (c *fakeSQLConn) Begin() (driver.Tx, error) { return fakeSQLTx{}, nil }

func (c *fakeSQLConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return c.rec.recordExec(query, args), nil
}

func (c *fakeSQLConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	resp := c.rec.recordQuery(query)
	return &fakeSQLRows{columns: resp.columns, rows: resp.rows}, nil
}

type fakeSQLTx struct{}

func (fakeSQLTx) Commit() error   { return nil }
func (fakeSQLTx) Rollback() error { return nil }

type fakeSQLStmt struct {
	rec   *fakeSQLRecorder
	query string
}

func (s *fakeSQLStmt) Close() error  { return nil }
func (s *fakeSQLStmt) NumInput() int { return -1 }

func (s *fakeSQLStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.rec.recordExec(s.query, namedFromValues(args)), nil
}

func (s *fakeSQLStmt) Query([]driver.Value) (driver.Rows, error) {
	resp := s.rec.recordQuery(s.query)
	return &fakeSQLRows{columns: resp.columns, rows: resp.rows}, nil
}

func namedFromValues(values []driver.Value) []driver.NamedValue {
	out := make([]driver.NamedValue, 0, len(values))
	for i, v := range values {
		out = append(out, driver.NamedValue{Ordinal: i + 1, Value: v})
	}
	return out
}

type fakeSQLRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *fakeSQLRows) Columns() []string { return r.columns }
func (r *fakeSQLRows) Close() error      { return nil }

func (r *fakeSQLRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func openFakeDB(t *testing.T) (*sql.DB, *fakeSQLRecorder) {
	t.Helper()

	fakeSQLRegisterOnce.Do(func() {
		sql.Register("betterform_fake_sql", fakeSQLDriver{})
	})

	rec := &fakeSQLRecorder{rowsAffected: 1}
	name := t.Name()

	fakeSQLMu.Lock()
	fakeSQLRecorders[name] = rec
	fakeSQLMu.Unlock()

	t.Cleanup(func() {
		fakeSQLMu.Lock()
		delete(fakeSQLRecorders, name)
		fakeSQLMu.Unlock()
	})

	db, err := sql.Open("betterform_fake_sql", name)
	if err != nil {
		t.Fatalf("sql.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, rec
}

func TestSQLBackendPutUpserts(t *testing.T) {
	db, rec := openFakeDB(t)
	backend, err := NewSQLBackend(db)
	if err != nil {
		t.Fatalf("NewSQLBackend() error: %v", err)
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	item := sampleItem("contact")
	err = backend.Put(context.Background(), Record{RegistryID: "abc", Item: item, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	if len(rec.execs) != 1 {
		t.Fatalf("expected 1 exec, got %d", len(rec.execs))
	}
	got := rec.execs[0]
	want := "INSERT INTO registries (registry_id, item, created_at, expires_at) VALUES ($1, $2, $3, $4) " +
		"ON CONFLICT (registry_id) DO UPDATE SET item = EXCLUDED.item, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at"
	if got.query != want {
		t.Fatalf("unexpected query:\n got: %s\nwant: %s", got.query, want)
	}
	if len(got.args) != 4 || got.args[0].Value != "abc" {
		t.Fatalf("unexpected args: %#v", got.args)
	}

	var stored map[string]any
	if err := json.Unmarshal(got.args[1].Value.([]byte), &stored); err != nil {
		t.Fatalf("item payload is not JSON: %v", err)
	}
	if stored["name"] != "contact" {
		t.Fatalf("unexpected payload name %v", stored["name"])
	}
	if !got.args[3].Value.(time.Time).Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", got.args[3].Value)
	}
}

func TestSQLBackendGet(t *testing.T) {
	db, rec := openFakeDB(t)
	backend, err := NewSQLBackend(db, WithTable("form_registries"))
	if err != nil {
		t.Fatalf("NewSQLBackend() error: %v", err)
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	item := sampleItem("contact")
	payload, _ := json.Marshal(item)
	rec.queryResponses = []fakeRowsResult{{
		columns: []string{"item", "created_at", "expires_at"},
		rows:    [][]driver.Value{{payload, now, now.Add(time.Hour)}},
	}}

	got, ok, err := backend.Get(context.Background(), "abc")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if diff := cmp.Diff(item, got.Item); diff != "" {
		t.Fatalf("item mismatch (-want +got):\n%s", diff)
	}
	if !got.ExpiresAt.Equal(now.Add(time.Hour)) || got.RegistryID != "abc" {
		t.Fatalf("unexpected record %+v", got)
	}
	if want := "SELECT item, created_at, expires_at FROM form_registries WHERE registry_id = $1"; rec.queries[0] != want {
		t.Fatalf("unexpected query: %s", rec.queries[0])
	}
}

func TestSQLBackendGetMissing(t *testing.T) {
	db, _ := openFakeDB(t)
	backend, _ := NewSQLBackend(db)

	_, ok, err := backend.Get(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("Get() = ok %v, err %v; want missing", ok, err)
	}
}

func TestSQLBackendDeleteExpired(t *testing.T) {
	db, rec := openFakeDB(t)
	rec.rowsAffected = 3
	backend, _ := NewSQLBackend(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	removed, err := backend.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired() error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if want := "DELETE FROM registries WHERE expires_at < $1"; rec.execs[0].query != want {
		t.Fatalf("unexpected query: %s", rec.execs[0].query)
	}

	if err := backend.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if want := "DELETE FROM registries WHERE registry_id = $1"; rec.execs[1].query != want {
		t.Fatalf("unexpected query: %s", rec.execs[1].query)
	}
}

func TestSQLBackendCreateTable(t *testing.T) {
	db, rec := openFakeDB(t)
	backend, _ := NewSQLBackend(db)

	if err := backend.CreateTable(context.Background()); err != nil {
		t.Fatalf("CreateTable() error: %v", err)
	}
	if len(rec.execs) != 2 {
		t.Fatalf("expected table and index statements, got %d", len(rec.execs))
	}
	if !strings.HasPrefix(rec.execs[0].query, "CREATE TABLE IF NOT EXISTS registries (") {
		t.Fatalf("unexpected table statement: %s", rec.execs[0].query)
	}
	if want := "CREATE INDEX IF NOT EXISTS idx_registries_expires ON registries(expires_at)"; rec.execs[1].query != want {
		t.Fatalf("unexpected index statement: %s", rec.execs[1].query)
	}
}

func TestSQLBackendRejectsUnsafeTable(t *testing.T) {
	db, _ := openFakeDB(t)
	if _, err := NewSQLBackend(db, WithTable("registries; DROP TABLE users")); err == nil {
		t.Fatal("expected invalid table name error")
	}
	if _, err := NewSQLBackend(nil); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestSQLBackendThroughStore(t *testing.T) {
	db, rec := openFakeDB(t)
	backend, _ := NewSQLBackend(db)
	clock := newFakeClock()
	s, err := New(backend, WithClock(clock.Now), WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	payload, _ := json.Marshal(sampleItem("contact"))
	rec.queryResponses = []fakeRowsResult{{
		columns: []string{"item", "created_at", "expires_at"},
		rows:    [][]driver.Value{{payload, clock.Now().Add(-time.Hour), clock.Now().Add(-time.Minute)}},
	}}

	if _, err := s.Fetch(context.Background(), "stale"); err != ErrExpired {
		t.Fatalf("Fetch() error = %v, want ErrExpired", err)
	}
	if len(rec.execs) != 1 {
		t.Fatalf("expected one lazy delete, got %+v", rec.execs)
	}
	if want := "DELETE FROM registries WHERE registry_id = $1 AND expires_at <= $2"; rec.execs[0].query != want {
		t.Fatalf("unexpected lazy delete: %s", rec.execs[0].query)
	}
	if got, ok := rec.execs[0].args[1].Value.(time.Time); !ok || !got.Equal(clock.Now()) {
		t.Fatalf("lazy delete cutoff = %v, want %v", rec.execs[0].args[1].Value, clock.Now())
	}
}

func TestSQLBackendDeleteIfExpired(t *testing.T) {
	db, rec := openFakeDB(t)
	backend, _ := NewSQLBackend(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	removed, err := backend.DeleteIfExpired(context.Background(), "abc", now)
	if err != nil || !removed {
		t.Fatalf("DeleteIfExpired() = %v, %v; want true, nil", removed, err)
	}
	if got := rec.execs[0].args[0].Value; got != "abc" {
		t.Fatalf("id arg = %v, want abc", got)
	}

	rec.rowsAffected = 0
	removed, err = backend.DeleteIfExpired(context.Background(), "abc", now)
	if err != nil || removed {
		t.Fatalf("DeleteIfExpired() on refreshed row = %v, %v; want false, nil", removed, err)
	}
}

func TestSQLBackendReportsRowsAffectedError(t *testing.T) {
	db, rec := openFakeDB(t)
	rec.rowsErr = errors.New("driver cannot count rows")
	backend, _ := NewSQLBackend(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := backend.DeleteExpired(context.Background(), now); !errors.Is(err, rec.rowsErr) {
		t.Fatalf("DeleteExpired() error = %v, want %v", err, rec.rowsErr)
	}
	if _, err := backend.DeleteIfExpired(context.Background(), "abc", now); !errors.Is(err, rec.rowsErr) {
		t.Fatalf("DeleteIfExpired() error = %v, want %v", err, rec.rowsErr)
	}
}
