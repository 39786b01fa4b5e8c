package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	Client *minio.Client
	s      *Storage
}

func newMinio(s *Storage) (*MinioStorage, error) {
	client, err := minio.New(hostOf(s.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseTLS,
		Region: s.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{Client: client, s: s}, nil
}

func (m *MinioStorage) PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	fullPath := getFullPath(m.s.BasePath, objectName)
	_, err := m.Client.PutObject(ctx, m.s.Bucket, fullPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fullPath, nil
}

func (m *MinioStorage) Delete(ctx context.Context, objectName string) error {
	fullPath := getFullPath(m.s.BasePath, objectName)
	return m.Client.RemoveObject(ctx, m.s.Bucket, fullPath, minio.RemoveObjectOptions{})
}

func (m *MinioStorage) URL(fullPath string) string {
	return m.s.publicURL(m.s.scheme()+"://"+hostOf(m.s.Endpoint)+"/"+m.s.Bucket, fullPath)
}
