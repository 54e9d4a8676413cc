package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cortecaja/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3StatementArchive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3StatementArchive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3StatementArchive(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials return error", func(t *testing.T) {
		_, err := NewS3StatementArchive(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials are required")
	})

	t.Run("valid config creates archive", func(t *testing.T) {
		archive, err := NewS3StatementArchive(&config.StorageConfig{
			Bucket:       "statements",
			AccessKey:    "k",
			SecretKey:    "s",
			Endpoint:     "minio:9000",
			UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "statements", archive.Bucket())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", false, "http://localhost:9000"},
		{"minio:9000", false, "http://minio:9000"},
		{"s3.example.com", true, "https://s3.example.com"},
		{"https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tc := range tests {
		got, err := normalizeEndpoint(tc.endpoint, tc.useSSL)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

// fakeS3 records the requests of a path-style S3 client
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
	buckets  map[string]bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{bodies: map[string][]byte{}, buckets: map[string]bool{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/statements":
		if !f.buckets["statements"] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && r.URL.Path == "/statements":
		f.buckets["statements"] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.bodies[r.URL.Path] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newFakeArchive(t *testing.T) (*S3StatementArchive, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	archive, err := NewS3StatementArchive(&config.StorageConfig{
		Bucket:       "statements",
		AccessKey:    "k",
		SecretKey:    "s",
		Endpoint:     server.URL,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return archive, fake
}

func TestS3StatementArchive_EnsureBucket(t *testing.T) {
	archive, fake := newFakeArchive(t)
	ctx := context.Background()

	require.NoError(t, archive.EnsureBucket(ctx))
	assert.True(t, fake.buckets["statements"])

	// second call finds the bucket
	require.NoError(t, archive.EnsureBucket(ctx))
	assert.Equal(t, []string{"HEAD /statements", "PUT /statements", "HEAD /statements"}, fake.requests)
}

func TestS3StatementArchive_Upload(t *testing.T) {
	archive, fake := newFakeArchive(t)
	ctx := context.Background()

	err := archive.Upload(ctx, "statements/2025-01-15/daily-sales/abc.pdf", []byte("%PDF-1.3"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), fake.bodies["/statements/statements/2025-01-15/daily-sales/abc.pdf"])

	err = archive.Upload(ctx, "", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}
