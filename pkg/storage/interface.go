package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrNotFound = errors.New("storage: object not found")
	// ErrNoDirectURL is returned by providers whose objects can only be
	// read back through Open.
	ErrNoDirectURL = errors.New("storage: provider has no direct URLs")
)

type StorageProvider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	// GetURL returns a URL the object can be fetched from. Providers that
	// support signing make it expire after expiration.
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	FileExists(ctx context.Context, key string) (bool, error)
	// Open streams the object. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type UploadRequest struct {
	Key         string            `json:"key"`
	Reader      io.Reader         `json:"-"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}

// Options selects and configures a provider.
type Options struct {
	Provider string // local, aws, gcp

	LocalPath string

	Region    string
	Bucket    string
	ProjectID string
	CredsFile string
	CDNDomain string
}

func NewProvider(ctx context.Context, opts Options) (StorageProvider, error) {
	switch opts.Provider {
	case "", "local":
		return NewLocalStorage(opts.LocalPath)
	case "aws", "s3":
		return NewAWSS3Storage(ctx, opts.Region, opts.Bucket, opts.CDNDomain)
	case "gcp", "gcs":
		return NewGCPStorage(ctx, opts.ProjectID, opts.Bucket, opts.CredsFile, opts.CDNDomain)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", opts.Provider)
	}
}
