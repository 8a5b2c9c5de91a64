package vault

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxSecretObjectSize caps how much of the object is read.
const maxSecretObjectSize = 64 << 10

type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the secret from a single object.
type S3Source struct {
	client  S3API
	bucket  string
	key     string
	timeout time.Duration
}

func NewS3Source(client S3API, bucket, key string, timeout time.Duration) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key, timeout: timeout}
}

func (s *S3Source) FetchSecret(ctx context.Context) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", fmt.Errorf("s3 get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxSecretObjectSize))
	if err != nil {
		return "", fmt.Errorf("s3 read s3://%s/%s: %w", s.bucket, s.key, err)
	}

	secret, err := ParseSecret(string(b))
	if err != nil {
		return "", fmt.Errorf("s3 s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return secret, nil
}
