package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectClient struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	listErr error
}

func newFakeObjectClient() *fakeObjectClient {
	return &fakeObjectClient{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectClient) Put(_ context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectClient) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeObjectClient) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectClient) List(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func TestObjectBackendRoundTrip(t *testing.T) {
	client := newFakeObjectClient()
	backend, err := NewObjectBackend(client, "forms")
	require.NoError(t, err)

	clock := newFakeClock()
	s, err := New(backend, WithClock(clock.Now))
	require.NoError(t, err)

	item := sampleItem("contact")
	_, err = s.Put(context.Background(), "abc", item)
	require.NoError(t, err)

	assert.Contains(t, client.objects, "forms/abc.json")
	assert.Equal(t, "application/json", client.types["forms/abc.json"])

	rec, err := s.Fetch(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, item, rec.Item)
	assert.True(t, rec.ExpiresAt.Equal(clock.Now().Add(DefaultTTL)))
}

func TestObjectBackendLazyExpiryAndSweep(t *testing.T) {
	client := newFakeObjectClient()
	backend, err := NewObjectBackend(client, "")
	require.NoError(t, err)

	clock := newFakeClock()
	s, err := New(backend, WithClock(clock.Now), WithTTL(time.Minute))
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Put(ctx, id, sampleItem(id))
		require.NoError(t, err)
	}
	client.objects["registries/garbage.json"] = []byte("not json")
	client.objects["other/x.json"] = []byte("{}")

	clock.Advance(2 * time.Minute)
	_, err = s.Fetch(ctx, "a")
	assert.ErrorIs(t, err, ErrExpired)
	assert.NotContains(t, client.objects, "registries/a.json")

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Contains(t, client.objects, "registries/garbage.json")
	assert.Contains(t, client.objects, "other/x.json")
}

func TestObjectBackendDeleteIfExpiredRechecksEnvelope(t *testing.T) {
	client := newFakeObjectClient()
	backend, err := NewObjectBackend(client, "")
	require.NoError(t, err)
	ctx := context.Background()
	now := newFakeClock().Now()

	require.NoError(t, backend.Put(ctx, Record{RegistryID: "hot", Item: sampleItem("hot"), ExpiresAt: now.Add(time.Minute)}))
	removed, err := backend.DeleteIfExpired(ctx, "hot", now)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Contains(t, client.objects, "registries/hot.json")

	removed, err = backend.DeleteIfExpired(ctx, "hot", now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NotContains(t, client.objects, "registries/hot.json")

	removed, err = backend.DeleteIfExpired(ctx, "hot", now)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestObjectBackendDeleteMissing(t *testing.T) {
	backend, err := NewObjectBackend(newFakeObjectClient(), "")
	require.NoError(t, err)
	assert.NoError(t, backend.Delete(context.Background(), "nope"))
}

func TestObjectBackendListFailure(t *testing.T) {
	client := newFakeObjectClient()
	client.listErr = errors.New("bucket unreachable")
	backend, err := NewObjectBackend(client, "")
	require.NoError(t, err)

	_, err = backend.DeleteExpired(context.Background(), time.Now())
	assert.ErrorIs(t, err, client.listErr)
}

func TestNewObjectBackendRequiresClient(t *testing.T) {
	_, err := NewObjectBackend(nil, "")
	assert.Error(t, err)
}
