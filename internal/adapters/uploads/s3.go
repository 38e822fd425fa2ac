package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"lion_estate/internal/adapters/observability"
)

// keyPrefix keeps property images apart from anything else in the bucket.
const keyPrefix = "properties/"

type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string // optional, e.g. a MinIO URL; switches to path-style
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	api     putObjectAPI
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	if o.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
		so.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return newS3Store(client, o.Bucket, o.PublicBaseURL), nil
}

func newS3Store(api putObjectAPI, bucket, baseURL string) *S3Store {
	return &S3Store{api: api, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, body io.ReadSeeker, size int64) (string, error) {
	key := keyPrefix + filename
	start := time.Now()
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	observability.ObserveExternal("s3", "PutObject", statusOf(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	observability.ObserveUpload("s3", size)
	return s.baseURL + "/" + key, nil
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
