package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type COSStorage struct {
	Client    *cos.Client
	bucketURL *url.URL
	s         *Storage
}

func newCOS(s *Storage) (*COSStorage, error) {
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, err
	}
	// 如果 Endpoint 不包含 bucket，则添加
	if s.Bucket != "" && u.Host != "" {
		u, _ = url.Parse("https://" + s.Bucket + "." + u.Host)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  s.AccessKey,
			SecretKey: s.SecretKey,
		},
	})
	return &COSStorage{Client: client, bucketURL: u, s: s}, nil
}

func (c *COSStorage) PutObject(ctx context.Context, objectName string, r io.Reader, _ int64, contentType string) (string, error) {
	fullPath := getFullPath(c.s.BasePath, objectName)
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	}
	if _, err := c.Client.Object.Put(ctx, fullPath, r, opt); err != nil {
		return "", err
	}
	return fullPath, nil
}

func (c *COSStorage) Delete(ctx context.Context, objectName string) error {
	_, err := c.Client.Object.Delete(ctx, getFullPath(c.s.BasePath, objectName))
	return err
}

func (c *COSStorage) URL(fullPath string) string {
	return c.s.publicURL(c.bucketURL.String(), fullPath)
}
