// Package s3 adapts AWS S3 to the dashboard's storage gateway contract.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the slice of the S3 API the gateway needs. *awss3.Client
// satisfies it; tests substitute a mock.
type Client interface {
	HeadBucket(ctx context.Context, params *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *awss3.CreateBucketInput, optFns ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Gateway wraps one S3 bucket with ensure-and-put semantics.
// It implements dashboard.BlobStore.
type Gateway struct {
	client Client
	bucket string
	logger *slog.Logger
}

// NewGateway creates a storage gateway for the named bucket.
func NewGateway(client Client, bucket string, logger *slog.Logger) *Gateway {
	return &Gateway{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket probes for the bucket and creates it when the probe fails.
// A probe failure is not distinguishable here from a genuine miss (it may be
// transient, or the bucket may appear under a race with another process), so
// creation is attempted either way and writes proceed regardless of the
// outcome; an actual write failure is reported at put time.
func (g *Gateway) EnsureBucket(ctx context.Context) error {
	_, err := g.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(g.bucket),
	})
	if err == nil {
		g.logger.Info("bucket exists", "bucket", g.bucket)
		return nil
	}

	g.logger.Info("creating bucket", "bucket", g.bucket, "probe_error", err)
	if _, err := g.client.CreateBucket(ctx, &awss3.CreateBucketInput{
		Bucket: aws.String(g.bucket),
	}); err != nil {
		return fmt.Errorf("create bucket %s: %w", g.bucket, err)
	}

	g.logger.Info("bucket created", "bucket", g.bucket)
	return nil
}

// Put writes one object in a single attempt. No retry, no versioning, no
// conditional write: the last writer for a key wins.
func (g *Gateway) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := g.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}
