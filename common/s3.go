package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// CoverBucketConfig contains minimal configuration for the cover image bucket.
// Values are optional and fall back to the standard AWS config/credential chain.
type CoverBucketConfig struct {
	Bucket string
	// Prefix is prepended to every key, normalized to end with "/".
	Prefix string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// UsePathStyle forces path-style addressing (useful for S3-compatible providers).
	UsePathStyle bool
}

// CoverBucket stores processed cover images in S3 behind a narrow interface
// the cover worker can mock.
type CoverBucket struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewCoverBucket creates the bucket wrapper using the default AWS
// configuration chain with optional overrides.
func NewCoverBucket(ctx context.Context, cfg CoverBucketConfig) (*CoverBucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("cover bucket name is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &CoverBucket{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (b *CoverBucket) key(articleID, coverID string) string {
	return fmt.Sprintf("%scovers/%s/%s.jpg", b.prefix, articleID, coverID)
}

// UploadCover writes a cover image object and returns its object URL.
func (b *CoverBucket) UploadCover(ctx context.Context, articleID, coverID string, body io.Reader, contentType string) (string, error) {
	key := b.key(articleID, coverID)

	in := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := b.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put cover %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", b.bucket, key), nil
}

// FetchCover returns the stored cover body. Caller must Close it.
func (b *CoverBucket) FetchCover(ctx context.Context, articleID, coverID string) (io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(articleID, coverID)),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// CoverExists reports whether the cover object exists (404 is not an error).
func (b *CoverBucket) CoverExists(ctx context.Context, articleID, coverID string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(articleID, coverID)),
	})
	if err == nil {
		return true, nil
	}

	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}
