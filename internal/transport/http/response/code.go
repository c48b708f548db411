package response

const (
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooLarge        = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

// CodeMsgMap 集中管理 code → 默认 msg
var CodeMsgMap = map[int]string{
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeTooLarge:        "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeUnavailable:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}
