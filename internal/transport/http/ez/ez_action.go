package ez

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "employee-crud-starter/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Group 需要自己写响应（如流式输出）时直接拿分组
func (e EZ) Group() *gin.RouterGroup { return e.g }

type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// ErrAbsent 表示资源不存在：404，响应体为空
var ErrAbsent = errors.New("absent")

// AErr 统一错误对象，Code 即 HTTP 状态码
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Conflict(msg string) error   { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string
	Binder  Binder
	Status  int  // 成功状态码，默认 200
	NoBody  bool // 成功时不写响应体（如 204）
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var tooBig *http.MaxBytesError
			if errors.As(bindErr, &tooBig) {
				WriteError(c, &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: bindErr})
				return
			}
			WriteError(c, BadRequest(bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		if a.NoBody {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	case http.MethodPost:
		e.g.POST(a.Path, h)
	default:
		panic(fmt.Sprintf("ez: unsupported method %q for %s", a.Method, a.Path))
	}
}

// WriteError 统一错误映射：ErrAbsent → 404 空体；AErr → 其 Code；其余 → 500
func WriteError(c *gin.Context, err error) {
	if errors.Is(err, ErrAbsent) {
		c.Status(http.StatusNotFound)
		return
	}
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Err != nil {
			_ = c.Error(ae.Err)
		}
		c.JSON(ae.Code, resp.Error(ae.Code, ae.Error()))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "internal error"))
}
