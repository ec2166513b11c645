package source

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
)

// S3API is the subset of the S3 client used by the S3 fetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 fetches s3://bucket/key URLs.
type S3 struct {
	mu     sync.Mutex
	api    S3API
	logger *slog.Logger
}

// S3Option configures an S3 fetcher.
type S3Option func(*S3)

// WithS3Client sets the S3 client. Without it a client is built from the
// default AWS configuration on first use.
func WithS3Client(api S3API) S3Option {
	return func(s *S3) {
		s.api = api
	}
}

// WithS3Logger sets the logger.
func WithS3Logger(logger *slog.Logger) S3Option {
	return func(s *S3) {
		s.logger = logger
	}
}

// NewS3 returns an S3 fetcher.
func NewS3(opts ...S3Option) *S3 {
	s := &S3{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *S3) client(ctx context.Context) (S3API, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api != nil {
		return s.api, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load AWS config")
	}
	s.api = s3.NewFromConfig(cfg)
	return s.api, nil
}

// ParseS3URL splits an s3://bucket/key URL.
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid S3 URL",
			map[string]interface{}{"url": rawURL})
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", errors.NewWithContext(errors.CodeInvalidInput, "S3 URL must have the form s3://bucket/key",
			map[string]interface{}{"url": rawURL})
	}
	return bucket, key, nil
}

// Fetch implements Fetcher.
func (s *S3) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return err
	}

	api, err := s.client(ctx)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "downloading object", "bucket", bucket, "key", key)
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return handleS3Error(err, bucket, key)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return errors.WrapWithContext(err, errors.CodeNetwork, "object download interrupted",
			map[string]interface{}{"bucket": bucket, "key": key})
	}
	return nil
}

func handleS3Error(err error, bucket, key string) error {
	ctx := map[string]interface{}{"bucket": bucket, "key": key}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return errors.WrapWithContext(err, errors.CodeNotFound, "object not found", ctx)
		case "AccessDenied", "Forbidden":
			return errors.WrapWithContext(err, errors.CodeInvalidConfig, "access to object denied", ctx)
		}
	}
	return errors.WrapWithContext(err, errors.CodeNetwork, "failed to get object", ctx)
}
