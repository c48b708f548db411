package response

// Resp 错误响应体；成功时直接返回资源本身
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Error code 同时作为 HTTP 状态码使用；customMsg 为空时取默认文案
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Code: code, Msg: msg}
}
