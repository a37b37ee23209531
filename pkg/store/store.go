package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-betterform/pkg/registry"
)

var (
	ErrNotFound    = errors.New("store: registry not found")
	ErrExpired     = errors.New("store: registry expired")
	ErrInvalidID   = errors.New("store: invalid registry id")
	ErrStoreClosed = errors.New("store: closed")
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = time.Minute
	maxIDLength          = 128
)

var validID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateID rejects ids that cannot safely appear in URLs, object keys or
// table rows.
func ValidateID(id string) error {
	if id == "" || len(id) > maxIDLength || !validID.MatchString(id) || strings.Trim(id, ".") == "" {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Record is one stored bundle.
type Record struct {
	RegistryID string        `json:"registryId"`
	Item       registry.Item `json:"item"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

// Expired reports whether the record is no longer retrievable at now.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Backend persists records. Implementations must make Put a single atomic
// write per id and treat deleting a missing id as success.
type Backend interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	Delete(ctx context.Context, id string) error
	// DeleteIfExpired removes id only while the stored record is still
	// expired at now, so a write that replaced it in the meantime survives.
	// It reports whether a record was removed.
	DeleteIfExpired(ctx context.Context, id string, now time.Time) (bool, error)
	// DeleteExpired removes every record with ExpiresAt before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Receipt describes a successful Put.
type Receipt struct {
	RegistryID string    `json:"registryId"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ExpiresIn  int       `json:"expiresIn"`
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long entries stay retrievable.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBaseURL prefixes fetch URLs. Without it URLs are host relative.
func WithBaseURL(base string) Option {
	return func(s *Store) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithLogger sets the logger used for sweeps and backend failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records store activity.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Store applies TTL semantics over a Backend.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	baseURL string
	logger  logrus.FieldLogger
	metrics *Metrics
	closed  atomic.Bool
}

// New wraps backend.
func New(backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("store: backend is required")
	}
	s := &Store{
		backend: backend,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// TTL returns the configured time to live.
func (s *Store) TTL() time.Duration { return s.ttl }

// URL returns the fetch URL for id.
func (s *Store) URL(id string) string {
	return s.baseURL + "/r/" + id + ".json"
}

// Put stores item under id, replacing any previous entry.
func (s *Store) Put(ctx context.Context, id string, item registry.Item) (Receipt, error) {
	if s.closed.Load() {
		return Receipt{}, ErrStoreClosed
	}
	if err := ValidateID(id); err != nil {
		return Receipt{}, err
	}

	now := s.now()
	rec := Record{
		RegistryID: id,
		Item:       item.Clone(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.backend.Put(ctx, rec); err != nil {
		s.metrics.observeError("put")
		return Receipt{}, fmt.Errorf("store: put %s: %w", id, err)
	}
	s.metrics.observePut()

	return Receipt{
		RegistryID: id,
		URL:        s.URL(id),
		ExpiresAt:  rec.ExpiresAt,
		ExpiresIn:  int(s.ttl / time.Second),
	}, nil
}

// Fetch returns the record for id. An entry past its expiry is deleted and
// reported as ErrExpired; a missing entry is ErrNotFound.
func (s *Store) Fetch(ctx context.Context, id string) (Record, error) {
	if s.closed.Load() {
		return Record{}, ErrStoreClosed
	}
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}

	rec, ok, err := s.backend.Get(ctx, id)
	if err != nil {
		s.metrics.observeError("get")
		return Record{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	if !ok {
		s.metrics.observeFetch(fetchMiss)
		return Record{}, ErrNotFound
	}
	if now := s.now(); rec.Expired(now) {
		if _, err := s.backend.DeleteIfExpired(ctx, id, now); err != nil {
			s.metrics.observeError("delete")
			s.logger.WithError(err).WithField("registry_id", id).Warn("store: lazy delete failed")
		}
		s.metrics.observeFetch(fetchExpired)
		return Record{}, ErrExpired
	}
	s.metrics.observeFetch(fetchHit)
	rec.Item = rec.Item.Clone()
	return rec, nil
}

// Delete removes id. Missing ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		s.metrics.observeError("delete")
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// Sweep removes every expired entry.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrStoreClosed
	}
	removed, err := s.backend.DeleteExpired(ctx, s.now())
	if err != nil {
		s.metrics.observeError("sweep")
		return removed, fmt.Errorf("store: sweep: %w", err)
	}
	s.metrics.observeSweep(removed)
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled or the store is closed.
// Sweep failures are logged and do not stop the loop.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			switch {
			case errors.Is(err, ErrStoreClosed):
				return nil
			case err != nil:
				s.logger.WithError(err).Warn("store: sweep failed")
			default:
				s.logger.WithField("removed", removed).Debug("store: sweep complete")
			}
		}
	}
}

// Close stops the store and closes the backend when it supports closing.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
