package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const s3Timeout = 30 * time.Second

// PutObjectAPI is the part of the S3 client the archive needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads a copy of each file to a bucket under a key prefix
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from the default AWS credential chain
func NewS3Store(ctx context.Context, region, bucket, prefix string) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client PutObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for an upload name
func (s *S3Store) Key(name string) (string, error) {
	base, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return path.Join(s.prefix, base), nil
}

// Save uploads data and returns its s3:// location
func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	key, err := s.Key(name)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload to s3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	log.Debug().Str("location", location).Int("bytes", len(data)).Msg("archived upload")
	return location, nil
}
