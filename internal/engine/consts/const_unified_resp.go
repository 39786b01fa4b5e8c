package consts

// UnifiedResponse 统一响应
const (
	// DETAIL 用于设置响应数据，例如查询，分页等，需要返回数据
	// e.g: c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION 用于新增，修改，删除等，只返回操作结果
	// e.g: c.Locals(OPERATION, "")
	OPERATION = "operation"

	// CLAIMS 鉴权中间件写入的 *jwt.AuthClaims
	CLAIMS = "claims"

	// REQUEST_ID 请求 ID
	REQUEST_ID = "request_id"
)
