package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Store keeps the list as a single object so several machines can share
// one chord list.
type S3Store struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// NewS3Store builds a store using the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}
	return &S3Store{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

func (s *S3Store) key() string {
	return path.Join(s.Prefix, StateKey+".json")
}

func (s *S3Store) Load(ctx context.Context) ([]byte, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.key()),
	})
	if err != nil {
		var apiErr smithy.APIError
		// no such key just means nothing was saved yet
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("s3store: get %s/%s: %w", s.Bucket, s.key(), err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (s *S3Store) Save(ctx context.Context, data []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.key()),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3store: put %s/%s: %w", s.Bucket, s.key(), err)
	}
	return nil
}

// Check verifies the bucket is reachable with the current credentials.
func (s *S3Store) Check(ctx context.Context) error {
	if _, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.Bucket)}); err != nil {
		return fmt.Errorf("s3store: head bucket %s: %w", s.Bucket, err)
	}
	return nil
}
