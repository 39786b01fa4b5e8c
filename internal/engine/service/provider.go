package service

import (
	"github.com/go-arcade/quizhub/internal/pkg/storage"
	"github.com/google/wire"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	NewServices,
	wire.Bind(new(ImageUploader), new(*storage.ImageStore)),
)
