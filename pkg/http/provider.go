package http

import "github.com/google/wire"

// ProviderSet 提供 HTTP 相关配置
var ProviderSet = wire.NewSet(ProvideAuth)

// ProvideAuth 从 HTTP 配置中提取鉴权配置
func ProvideAuth(conf *Http) *Auth {
	return &conf.Auth
}
