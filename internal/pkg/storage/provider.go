package storage

import (
	"github.com/google/wire"
)

// ProviderSet 海报上传
var ProviderSet = wire.NewSet(NewImageStore)
