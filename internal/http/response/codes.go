package response

// 业务状态码，HTTP 状态统一为 200，调用方以 status_code 判断结果
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeUnprocessable   = 422 // 分配校验失败，data.errors 携带全部明细
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// IsClientError 4xx 业务码
func IsClientError(code int) bool {
	return code >= 400 && code < 500
}
