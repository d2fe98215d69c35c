package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"resume-ocr/internal/shared/storage/object"
)

const defaultURLExpiry = 15 * time.Minute

// ErrNotFound is returned by Open when the object does not exist.
var ErrNotFound = object.ErrNotFound

// Store implements ObjectStore on a Google Cloud Storage bucket.
type Store struct {
	client    *storage.Client
	bucket    *storage.BucketHandle
	name      string
	prefix    string
	urlExpiry time.Duration
	signer    *storage.SignedURLOptions
}

// Option customises a Store.
type Option func(*Store)

// WithSigner overrides the credentials used to sign download URLs.
// Without it the client's own credentials are used.
func WithSigner(googleAccessID string, privateKey []byte) Option {
	return func(s *Store) {
		s.signer = &storage.SignedURLOptions{
			GoogleAccessID: googleAccessID,
			PrivateKey:     privateKey,
		}
	}
}

// New wraps an existing storage client.
func New(client *storage.Client, bucket, prefix string, urlExpiry time.Duration, opts ...Option) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	if urlExpiry <= 0 {
		urlExpiry = defaultURLExpiry
	}
	s := &Store{
		client:    client,
		bucket:    client.Bucket(bucket),
		name:      bucket,
		prefix:    strings.Trim(strings.TrimSpace(prefix), "/"),
		urlExpiry: urlExpiry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dial creates a client from application default credentials.
func Dial(ctx context.Context, bucket, prefix string, urlExpiry time.Duration) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return New(client, bucket, prefix, urlExpiry)
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Save uploads the reader under the owner's namespace.
func (s *Store) Save(ctx context.Context, owner string, fileName string, r io.Reader) (string, int64, string, error) {
	storageKey, err := object.NewKey(owner, fileName)
	if err != nil {
		return "", 0, "", err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return "", 0, "", err
	}
	size, err := s.put(ctx, storageKey, mimeType, body)
	if err != nil {
		return "", 0, "", err
	}
	return storageKey, size, mimeType, nil
}

// SaveWithKey uploads data to a specific storage key.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	clean, err := object.CleanKey(storageKey)
	if err != nil {
		return 0, err
	}
	return s.put(ctx, clean, contentType, r)
}

// Open streams a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objectName := object.ApplyPrefix(s.prefix, storageKey)
	reader, err := s.bucket.Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gs://%s/%s: %w", s.name, objectName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", s.name, objectName, err)
	}
	return reader, nil
}

// URL returns a V4 signed GET link.
func (s *Store) URL(ctx context.Context, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectName := object.ApplyPrefix(s.prefix, storageKey)
	signed, err := s.bucket.SignedURL(objectName, s.signedURLOptions(time.Now()))
	if err != nil {
		return "", fmt.Errorf("sign gs://%s/%s: %w", s.name, objectName, err)
	}
	return signed, nil
}

func (s *Store) signedURLOptions(now time.Time) *storage.SignedURLOptions {
	opts := &storage.SignedURLOptions{}
	if s.signer != nil {
		*opts = *s.signer
	}
	opts.Scheme = storage.SigningSchemeV4
	opts.Method = http.MethodGet
	opts.Expires = now.Add(s.urlExpiry)
	return opts
}

func (s *Store) put(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	objectName := object.ApplyPrefix(s.prefix, storageKey)
	writer := s.bucket.Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	written, err := io.Copy(writer, r)
	if err != nil {
		_ = writer.Close()
		return 0, fmt.Errorf("io.Copy to gs://%s/%s failed: %w", s.name, objectName, err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize GCS write gs://%s/%s: %w", s.name, objectName, err)
	}
	return written, nil
}

var _ object.ObjectStore = (*Store)(nil)
