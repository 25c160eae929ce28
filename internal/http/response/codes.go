package response

// 业务状态码，与 HTTP 状态码一致
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// HTTPStatus 业务状态码对应的 HTTP 状态
func HTTPStatus(code int) int {
	switch {
	case code == CodeOK:
		return 200
	case code >= 400 && code <= 599:
		return code
	default:
		return CodeInternal
	}
}
