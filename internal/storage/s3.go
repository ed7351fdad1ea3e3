package storage

import (
	"bytes"
	"context"
	"ctchen222/pokedex/internal/apperr"
	"ctchen222/pokedex/internal/config"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("storage")

// ImageStore persists image bytes and reports on stored keys.
//
//go:generate mockgen -destination=../mocks/mock_image_store.go -package=mocks ctchen222/pokedex/internal/storage ImageStore
type ImageStore interface {
	Store(ctx context.Context, bucket, key, contentType string, content []byte) (string, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3Store struct {
	client   s3API
	region   string
	endpoint string
}

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// both key id and secret are set, otherwise the default AWS chain.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, awsCfg.Region, endpoint), nil
}

func newS3Store(client s3API, region, endpoint string) *S3Store {
	return &S3Store{client: client, region: region, endpoint: endpoint}
}

func (s *S3Store) Store(ctx context.Context, bucket, key, contentType string, content []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "S3Store.Store")
	defer span.End()
	span.SetAttributes(attribute.String("s3.bucket", bucket), attribute.String("s3.key", key))

	if bucket == "" {
		return "", apperr.Storage(nil, "image bucket is not configured")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "put object failed")
		return "", apperr.Storage(err, "failed to upload image")
	}

	return s.URL(bucket, key), nil
}

func (s *S3Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	ctx, span := tracer.Start(ctx, "S3Store.Exists")
	defer span.End()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "head object failed")
	return false, apperr.Storage(err, "failed to check image")
}

// URL is the public address of key: virtual-hosted style on AWS, path style
// behind a custom endpoint.
func (s *S3Store) URL(bucket, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, escaped)
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
