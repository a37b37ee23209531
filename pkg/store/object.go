package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultObjectPrefix is the key prefix used by ObjectBackend.
const DefaultObjectPrefix = "registries/"

// ErrObjectNotFound is returned by ObjectClient.Get for missing keys.
var ErrObjectNotFound = errors.New("store: object not found")

// ObjectClient is the narrow slice of an S3 compatible client the object
// backend needs.
type ObjectClient interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// ObjectBackend stores each record as one JSON object under prefix+id+".json".
type ObjectBackend struct {
	client ObjectClient
	prefix string
}

// NewObjectBackend wraps client. An empty prefix falls back to
// DefaultObjectPrefix.
func NewObjectBackend(client ObjectClient, prefix string) (*ObjectBackend, error) {
	if client == nil {
		return nil, errors.New("store: object client is required")
	}
	if prefix == "" {
		prefix = DefaultObjectPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectBackend{client: client, prefix: prefix}, nil
}

func (b *ObjectBackend) key(id string) string {
	return b.prefix + id + ".json"
}

func (b *ObjectBackend) Put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return b.client.Put(ctx, b.key(rec.RegistryID), payload, "application/json")
}

func (b *ObjectBackend) Get(ctx context.Context, id string) (Record, bool, error) {
	payload, err := b.client.Get(ctx, b.key(id))
	if errors.Is(err, ErrObjectNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode record: %w", err)
	}
	return rec, true, nil
}

func (b *ObjectBackend) Delete(ctx context.Context, id string) error {
	err := b.client.Remove(ctx, b.key(id))
	if errors.Is(err, ErrObjectNotFound) {
		return nil
	}
	return err
}

// DeleteIfExpired re-reads the envelope and removes it only when the stored
// copy is still expired. Object stores offer no conditional delete, so a
// write landing between the read and the remove can still be lost.
func (b *ObjectBackend) DeleteIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	rec, ok, err := b.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	if !rec.Expired(now) {
		return false, nil
	}
	if err := b.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired reads every object under the prefix. Objects that cannot be
// decoded are left alone.
func (b *ObjectBackend) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	keys, err := b.client.List(ctx, b.prefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		payload, err := b.client.Get(ctx, key)
		if errors.Is(err, ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		var rec Record
		if json.Unmarshal(payload, &rec) != nil {
			continue
		}
		if !rec.ExpiresAt.Before(now) {
			continue
		}
		if err := b.client.Remove(ctx, key); err != nil && !errors.Is(err, ErrObjectNotFound) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// MinioConfig holds connection settings for an S3 compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// MinioClient adapts minio-go to ObjectClient.
type MinioClient struct {
	client *minio.Client
	bucket string
}

// NewMinioClient connects to cfg.Endpoint and creates the bucket when it does
// not exist yet.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("store: object endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("store: create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("store: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("store: create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioClient{client: client, bucket: cfg.Bucket}, nil
}

func (c *MinioClient) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (c *MinioClient) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateMinioError(err)
	}
	return data, nil
}

func (c *MinioClient) Remove(ctx context.Context, key string) error {
	return translateMinioError(c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}))
}

func (c *MinioClient) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for info := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, info.Err
		}
		keys = append(keys, info.Key)
	}
	return keys, nil
}

func translateMinioError(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrObjectNotFound
	}
	return err
}
