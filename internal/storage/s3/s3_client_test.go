package s3_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/config"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/storage/s3"
)

// fakeBucket serves path-style PUT and GET requests from memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	meta    map[string]string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = body
		b.types[key] = r.Header.Get("Content-Type")
		b.meta[key] = r.Header.Get("X-Amz-Meta-Step-Ordinal")
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`))
			return
		}
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newArchive(t *testing.T) (port.StepArchive, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}, meta: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	archive, err := s3.NewStepArchive(context.Background(), &config.S3Config{
		Region:    "sa-east-1",
		Bucket:    "comex-raw",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return archive, bucket
}

func TestStepKey(t *testing.T) {
	assert.Equal(t, "raw/PACKING_LIST/abc/step-2.json", s3.StepKey(domain.DocumentTypePackingList, "abc", 2))
}

func TestNewStepArchive_RequiresBucket(t *testing.T) {
	_, err := s3.NewStepArchive(context.Background(), &config.S3Config{Region: "sa-east-1"})
	assert.ErrorContains(t, err, "bucket is required")
}

func TestStepArchive_PutAndGet(t *testing.T) {
	archive, bucket := newArchive(t)
	payload := json.RawMessage(`{"invoice_number":"1"}`)

	err := archive.PutStep(context.Background(), domain.DocumentTypeCommercialInvoice, "h1",
		port.StepOutput{Ordinal: 1, Payload: payload})
	require.NoError(t, err)

	stored := "comex-raw/raw/COMMERCIAL_INVOICE/h1/step-1.json"
	assert.Equal(t, "application/json", bucket.types[stored])
	assert.Equal(t, "1", bucket.meta[stored])

	got, err := archive.GetStep(context.Background(), domain.DocumentTypeCommercialInvoice, "h1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Ordinal)
	assert.JSONEq(t, string(payload), string(got.Payload))
}

func TestStepArchive_GetMissing(t *testing.T) {
	archive, _ := newArchive(t)
	_, err := archive.GetStep(context.Background(), domain.DocumentTypePackingList, "nope", 3)
	assert.ErrorIs(t, err, domain.ErrStepNotArchived)
	assert.ErrorContains(t, err, "raw/PACKING_LIST/nope/step-3.json")
}
