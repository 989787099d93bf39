package objectclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core"
)

const (
	BackendS3  = "s3"
	BackendGCS = "gcs"
)

// Location is a parsed registry storage path.
type Location struct {
	Backend string
	Bucket  string
	Key     string
}

// ParseLocation understands s3:// and gs:// URIs, virtual-hosted S3 URLs
// (https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf), GCS
// public URLs (https://storage.googleapis.com/bucket/key) and bare keys,
// which go to the default backend and bucket.
func ParseLocation(path, defaultBackend, defaultBucket string) (Location, error) {
	switch {
	case strings.HasPrefix(path, "s3://"):
		return splitBucketKey(BackendS3, strings.TrimPrefix(path, "s3://"), path)
	case strings.HasPrefix(path, "gs://"):
		return splitBucketKey(BackendGCS, strings.TrimPrefix(path, "gs://"), path)
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"):
		return parseHTTPLocation(path)
	}

	key := strings.TrimPrefix(path, "/")
	if key == "" {
		return Location{}, fmt.Errorf("empty storage path")
	}
	if defaultBucket == "" {
		return Location{}, fmt.Errorf("no default bucket configured for %s key %q", defaultBackend, key)
	}
	return Location{Backend: defaultBackend, Bucket: defaultBucket, Key: key}, nil
}

func splitBucketKey(backend, rest, orig string) (Location, error) {
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("storage path %q must name a bucket and a key", orig)
	}
	return Location{Backend: backend, Bucket: bucket, Key: key}, nil
}

func parseHTTPLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse storage url: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")

	switch {
	case u.Host == "storage.googleapis.com":
		return splitBucketKey(BackendGCS, key, raw)
	case strings.HasSuffix(u.Host, ".amazonaws.com") && strings.Contains(u.Host, ".s3"):
		bucket := strings.Split(u.Host, ".")[0]
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("storage path %q must name a bucket and a key", raw)
		}
		return Location{Backend: BackendS3, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("unrecognised storage host %q", u.Host)
	}
}

var _ core.StorageReader = (*Router)(nil)

// Router downloads registry storage paths from whichever backend owns them.
type Router struct {
	clients        map[string]core.ObjectClient
	defaultBackend string
	defaultBuckets map[string]string
}

// NewRouter registers the available clients. A nil client leaves its backend
// unavailable.
func NewRouter(s3, gcs core.ObjectClient, defaultBackend, s3Bucket, gcsBucket string) *Router {
	r := &Router{
		clients:        map[string]core.ObjectClient{},
		defaultBackend: defaultBackend,
		defaultBuckets: map[string]string{BackendS3: s3Bucket, BackendGCS: gcsBucket},
	}
	if s3 != nil {
		r.clients[BackendS3] = s3
	}
	if gcs != nil {
		r.clients[BackendGCS] = gcs
	}
	return r
}

func (r *Router) Download(ctx context.Context, path string) ([]byte, error) {
	loc, err := ParseLocation(path, r.defaultBackend, r.defaultBuckets[r.defaultBackend])
	if err != nil {
		return nil, err
	}
	client, ok := r.clients[loc.Backend]
	if !ok {
		return nil, fmt.Errorf("%s storage is not configured", loc.Backend)
	}
	return client.GetFile(ctx, loc.Bucket, loc.Key)
}
