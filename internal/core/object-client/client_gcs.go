package objectclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

var _ core.ObjectClient = (*GCSClient)(nil)

type GCSClient struct {
	client *storage.Client
}

func NewGCSClient(ctx context.Context, opts ...option.ClientOption) (*GCSClient, error) {
	opts = append(opts, option.WithScopes(storage.ScopeReadOnly))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSClient{client: client}, nil
}

func (c *GCSClient) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	r, err := c.client.Bucket(bucket).Object(key).NewReader(ctxGet)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, apperr.New(apperr.KindNotFound, "gcs get", fmt.Sprintf("object gs://%s/%s not found", bucket, key), err)
		}
		return nil, fmt.Errorf("gcs get failed: %w", err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *GCSClient) Close() error {
	return c.client.Close()
}
