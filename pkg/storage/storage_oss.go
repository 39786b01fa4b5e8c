package storage

import (
	"context"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSStorage struct {
	Client *oss.Client
	Bucket *oss.Bucket
	s      *Storage
}

func newOSS(s *Storage) (*OSSStorage, error) {
	client, err := oss.New(s.Endpoint, s.AccessKey, s.SecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(s.Bucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorage{Client: client, Bucket: bucket, s: s}, nil
}

func (o *OSSStorage) PutObject(ctx context.Context, objectName string, r io.Reader, _ int64, contentType string) (string, error) {
	fullPath := getFullPath(o.s.BasePath, objectName)
	if err := o.Bucket.PutObject(fullPath, r, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return fullPath, nil
}

func (o *OSSStorage) Delete(ctx context.Context, objectName string) error {
	return o.Bucket.DeleteObject(getFullPath(o.s.BasePath, objectName), oss.WithContext(ctx))
}

func (o *OSSStorage) URL(fullPath string) string {
	return o.s.publicURL("https://"+o.s.Bucket+"."+hostOf(o.s.Endpoint), fullPath)
}
