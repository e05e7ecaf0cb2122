package host

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

// S3Config configures an S3 host.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3 stores output objects under Bucket/Prefix in an S3-compatible store.
//
// Reads accept either an s3://bucket/key URL, which may name any bucket, or
// an absolute path that is mapped to a key under Prefix.
type S3 struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	initOnce sync.Once
	initErr  error
}

// NewS3 creates an S3 host. The bucket is created lazily on first write.
func NewS3(cfg S3Config) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		region: region,
	}, nil
}

func (s *S3) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// ReadBytes fetches the object addressed by path.
func (s *S3) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	bucket, key := s.locate(path)
	if key == "" {
		return nil, fmt.Errorf("s3 read %q: empty object key", path)
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
		}
		return nil, err
	}
	return data, nil
}

// WriteBytes stores content under Prefix/relativePath.
func (s *S3) WriteBytes(ctx context.Context, relativePath string, content []byte) error {
	if err := errors.ValidatePath(relativePath); err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(relativePath), bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(relativePath),
	})
	return err
}

func (s *S3) locate(path string) (bucket, key string) {
	if rest, ok := strings.CutPrefix(path, "s3://"); ok {
		bucket, key, _ = strings.Cut(rest, "/")
		return bucket, key
	}
	return s.bucket, s.key(path)
}

func (s *S3) key(path string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(path), "/")
	if s.prefix == "" {
		return normalized
	}
	return s.prefix + "/" + normalized
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return "application/zip"
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
