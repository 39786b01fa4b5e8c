package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Storage struct {
	Client *s3.Client
	s      *Storage
}

func newS3(s *Storage) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
		config.WithRegion(s.Region),
	}
	if s.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(s.Endpoint))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// S3-compatible endpoints rarely support virtual-host buckets.
		o.UsePathStyle = s.Endpoint != ""
	})
	return &S3Storage{Client: client, s: s}, nil
}

func (s *S3Storage) PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	fullPath := getFullPath(s.s.BasePath, objectName)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.s.Bucket),
		Key:           aws.String(fullPath),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fullPath, nil
}

func (s *S3Storage) Delete(ctx context.Context, objectName string) error {
	fullPath := getFullPath(s.s.BasePath, objectName)
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s.Bucket),
		Key:    aws.String(fullPath),
	})
	return err
}

func (s *S3Storage) URL(fullPath string) string {
	fallback := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.s.Bucket, s.s.Region)
	if s.s.Endpoint != "" {
		fallback = s.s.scheme() + "://" + hostOf(s.s.Endpoint) + "/" + s.s.Bucket
	}
	return s.s.publicURL(fallback, fullPath)
}
