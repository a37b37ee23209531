package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/goliatone/go-betterform/pkg/registry"
)

// DefaultTable is the table used by SQLBackend when none is configured.
const DefaultTable = "registries"

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLBackend stores records in a PostgreSQL table:
//
//	CREATE TABLE registries (
//	    registry_id VARCHAR(128) PRIMARY KEY,
//	    item JSONB NOT NULL,
//	    created_at TIMESTAMP WITH TIME ZONE NOT NULL,
//	    expires_at TIMESTAMP WITH TIME ZONE NOT NULL
//	);
//	CREATE INDEX idx_registries_expires ON registries(expires_at);
type SQLBackend struct {
	db    *sql.DB
	table string
	owned bool
}

// SQLOption configures a SQLBackend.
type SQLOption func(*SQLBackend)

// WithTable overrides the table name.
func WithTable(name string) SQLOption {
	return func(b *SQLBackend) {
		if name != "" {
			b.table = name
		}
	}
}

// NewSQLBackend uses an existing handle. The caller keeps ownership of db.
func NewSQLBackend(db *sql.DB, opts ...SQLOption) (*SQLBackend, error) {
	if db == nil {
		return nil, errors.New("store: sql db is required")
	}
	b := &SQLBackend{db: db, table: DefaultTable}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if !validTable.MatchString(b.table) {
		return nil, fmt.Errorf("store: invalid table name %q", b.table)
	}
	return b, nil
}

// OpenPostgres opens dsn through the pgx driver and verifies the connection.
// The returned backend closes the pool on Close.
func OpenPostgres(ctx context.Context, dsn string, opts ...SQLOption) (*SQLBackend, error) {
	if dsn == "" {
		return nil, errors.New("store: postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	b, err := NewSQLBackend(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	b.owned = true
	return b, nil
}

func (b *SQLBackend) Put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Item)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (registry_id, item, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (registry_id) DO UPDATE SET
			item = EXCLUDED.item,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`, b.table)
	_, err = b.db.ExecContext(ctx, query, rec.RegistryID, payload, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC())
	return err
}

func (b *SQLBackend) Get(ctx context.Context, id string) (Record, bool, error) {
	query := fmt.Sprintf(`
		SELECT item, created_at, expires_at FROM %s
		WHERE registry_id = $1
	`, b.table)

	var (
		payload   []byte
		createdAt time.Time
		expiresAt time.Time
	)
	err := b.db.QueryRowContext(ctx, query, id).Scan(&payload, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var item registry.Item
	if err := json.Unmarshal(payload, &item); err != nil {
		return Record{}, false, fmt.Errorf("decode item: %w", err)
	}
	return Record{
		RegistryID: id,
		Item:       item,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
	}, true, nil
}

func (b *SQLBackend) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE registry_id = $1`, b.table)
	_, err := b.db.ExecContext(ctx, query, id)
	return err
}

// DeleteIfExpired re-checks expiry inside the DELETE so a concurrent upsert
// that pushed expires_at forward is left in place.
func (b *SQLBackend) DeleteIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE registry_id = $1 AND expires_at <= $2`, b.table)
	res, err := b.db.ExecContext(ctx, query, id, now.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: rows affected: %w", err)
	}
	return n > 0, nil
}

func (b *SQLBackend) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at < $1`, b.table)
	res, err := b.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: rows affected: %w", err)
	}
	return int(n), nil
}

// CreateTable creates the table and its expiry index if missing.
func (b *SQLBackend) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			registry_id VARCHAR(128) PRIMARY KEY,
			item JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`, b.table)
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_expires ON %s(expires_at)`, b.table, b.table)
	if _, err := b.db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("store: create index: %w", err)
	}
	return nil
}

// Close releases the pool when the backend opened it.
func (b *SQLBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}
