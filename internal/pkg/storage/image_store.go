package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-arcade/quizhub/pkg/id"
	"github.com/go-arcade/quizhub/pkg/log"
	pkgstorage "github.com/go-arcade/quizhub/pkg/storage"
)

const posterPrefix = "posters"

// ErrUnsupportedImage is returned for uploads whose content type is not image/*.
var ErrUnsupportedImage = errors.New("only image uploads are supported")

// ImageStore uploads event posters to the configured object storage.
type ImageStore struct {
	provider pkgstorage.StorageProvider
}

func NewImageStore(provider pkgstorage.StorageProvider) *ImageStore {
	return &ImageStore{provider: provider}
}

// Upload stores the file as posters/<shortid><ext> and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if s.provider == nil {
		return "", pkgstorage.ErrNotConfigured
	}

	contentType := ContentTypeOf(fh)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	objectName := fmt.Sprintf("%s/%s%s", posterPrefix, id.ShortId(), strings.ToLower(filepath.Ext(fh.Filename)))
	fullPath, err := s.provider.PutObject(ctx, objectName, f, fh.Size, contentType)
	if err != nil {
		log.Errorw("upload poster failed", "object", objectName, "error", err)
		return "", fmt.Errorf("upload poster: %w", err)
	}

	log.Infow("poster uploaded", "object", fullPath, "size", fh.Size)
	return s.provider.URL(fullPath), nil
}

// ContentTypeOf reads the part header and falls back to the file extension.
func ContentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
}
