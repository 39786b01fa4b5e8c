// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideStorage)

const (
	StorageMinio = "minio"
	StorageS3    = "s3"
	StorageOSS   = "oss"
	StorageGCS   = "gcs"
	StorageCOS   = "cos"
)

// ErrNotConfigured is returned by ProvideStorage when no provider is set.
var ErrNotConfigured = errors.New("object storage is not configured")

type Storage struct {
	Provider  string
	AccessKey string
	SecretKey string
	Endpoint  string
	Bucket    string
	Region    string
	UseTLS    bool
	BasePath  string
	// PublicURL overrides the link prefix returned for stored objects,
	// e.g. a CDN in front of the bucket.
	PublicURL string
}

// ProvideStorage builds the configured provider. A missing provider yields
// nil, and uploads fail with ErrNotConfigured at call time.
func ProvideStorage(s *Storage) (StorageProvider, error) {
	if s == nil || s.Provider == "" {
		return nil, nil
	}
	return NewStorage(s)
}

func NewStorage(s *Storage) (StorageProvider, error) {
	switch s.Provider {
	case StorageMinio:
		return newMinio(s)
	case StorageS3:
		return newS3(s)
	case StorageOSS:
		return newOSS(s)
	case StorageGCS:
		return newGCS(s)
	case StorageCOS:
		return newCOS(s)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", s.Provider)
	}
}

func getFullPath(basePath, objectName string) string {
	basePath = strings.Trim(basePath, "/")
	objectName = strings.TrimPrefix(objectName, "/")
	if basePath == "" {
		return objectName
	}
	return path.Join(basePath, objectName)
}

// publicURL joins PublicURL, or fallback when unset, with the object path.
func (s *Storage) publicURL(fallback, fullPath string) string {
	prefix := fallback
	if s.PublicURL != "" {
		prefix = s.PublicURL
	}
	return strings.TrimRight(prefix, "/") + "/" + fullPath
}

func (s *Storage) scheme() string {
	if s.UseTLS {
		return "https"
	}
	return "http"
}

func hostOf(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimRight(endpoint, "/")
}
