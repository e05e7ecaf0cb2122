package host

import (
	"bufio"
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

// fakeRedis implements the GET and SET commands of redis.UniversalClient
// over a map. Any other command panics through the nil embedded client.
type fakeRedis struct {
	redis.UniversalClient

	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx, "get", key)
	if v, ok := f.data[key]; ok {
		cmd.SetVal(string(v))
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	b, ok := value.([]byte)
	if !ok {
		cmd.SetErr(fmt.Errorf("unexpected value type %T", value))
		return cmd
	}
	f.data[key] = bytes.Clone(b)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	r := NewRedisClient(client, "lblp:", time.Hour)

	if err := r.WriteBytes(ctx, "out/archive.zip", []byte("zip")); err != nil {
		t.Fatalf("WriteBytes() error: %v", err)
	}
	if got := string(client.data["lblp:out/archive.zip"]); got != "zip" {
		t.Errorf("stored value = %q, want zip", got)
	}
	if got := client.ttls["lblp:out/archive.zip"]; got != time.Hour {
		t.Errorf("stored ttl = %v, want 1h", got)
	}

	got, err := r.ReadBytes(ctx, "out/archive.zip")
	if err != nil {
		t.Fatalf("ReadBytes() error: %v", err)
	}
	if string(got) != "zip" {
		t.Errorf("ReadBytes() = %q, want zip", got)
	}

	if _, err := r.ReadBytes(ctx, "/course/missing.pdf"); !goerrors.Is(err, ErrNotFound) {
		t.Errorf("ReadBytes(missing) error = %v, want ErrNotFound", err)
	}
	if err := r.WriteBytes(ctx, "../escape.zip", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteBytes(../escape.zip) error = %v, want INVALID_PATH", err)
	}
}

// fakeS3 serves the path-style bucket and object requests the S3 host issues.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
			body = decodeAWSChunked(body)
		}
		f.objects[bucket+"/"+key] = body
		w.Header().Set("ETag", `"fake"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		data, ok := f.objects[bucket+"/"+key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>%s</Key><BucketName>%s</BucketName></Error>`, key, bucket)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("ETag", `"fake"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// decodeAWSChunked strips the chunk framing of a streaming-signed upload.
func decodeAWSChunked(body []byte) []byte {
	var out bytes.Buffer
	br := bufio.NewReader(bytes.NewReader(body))
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return out.Bytes()
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || size == 0 {
			return out.Bytes()
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return out.Bytes()
		}
		_, _ = br.ReadString('\n')
	}
}

func newTestS3(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{buckets: make(map[string]bool), objects: make(map[string][]byte)}
	srv := httptest.NewTLSServer(fake)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	client, err := minio.New(u.Host, &minio.Options{
		Creds:     credentials.NewStaticV4("access", "secret", ""),
		Secure:    true,
		Region:    "us-east-1",
		Transport: srv.Client().Transport,
	})
	if err != nil {
		t.Fatalf("minio.New() error: %v", err)
	}
	return &S3{client: client, bucket: "courses", prefix: "out", region: "us-east-1"}, fake
}

func TestS3_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3(t)

	if err := s.WriteBytes(ctx, "archive.zip", []byte("zip")); err != nil {
		t.Fatalf("WriteBytes() error: %v", err)
	}
	if !fake.buckets["courses"] {
		t.Error("WriteBytes() should create the missing bucket")
	}
	if got := string(fake.objects["courses/out/archive.zip"]); got != "zip" {
		t.Errorf("stored object = %q, want zip", got)
	}

	for _, path := range []string{"/archive.zip", "s3://courses/out/archive.zip"} {
		got, err := s.ReadBytes(ctx, path)
		if err != nil {
			t.Fatalf("ReadBytes(%q) error: %v", path, err)
		}
		if string(got) != "zip" {
			t.Errorf("ReadBytes(%q) = %q, want zip", path, got)
		}
	}

	if _, err := s.ReadBytes(ctx, "/missing.pdf"); !goerrors.Is(err, ErrNotFound) {
		t.Errorf("ReadBytes(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.ReadBytes(ctx, "s3://courses/"); err == nil {
		t.Error("ReadBytes() with an empty key should fail")
	}
	if err := s.WriteBytes(ctx, "../escape.zip", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteBytes(../escape.zip) error = %v, want INVALID_PATH", err)
	}
}
