package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/paseto/errors"
)

const (
	defaultSuccessMsg = "success"
	defaultErrorMsg   = "operation failed"

	successCode = http.StatusOK
)

// Response 统一响应结构，HTTP 状态码固定为 200，业务结果由 Code 表示
type Response[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data T      `json:"data,omitempty"`
}

// GinJSON 写入成功响应
//
//	GinJSON(c, claims)
//	// {"code":200, "msg":"success", "data":{"sub":"alice","exp":1767225600}}
func GinJSON(c *gin.Context, data any) {
	if c == nil {
		return
	}

	c.JSON(http.StatusOK, &Response[any]{
		Code: successCode,
		Msg:  defaultSuccessMsg,
		Data: data,
	})
}

// GinJSONE 写入带业务码的响应
//
// data 的处理方式：
//   - error: 取 errors.Error 的 Message，不输出 cause 与 metadata
//   - string: 作为消息
//   - nil: 默认错误消息
//   - 其他类型: 作为 data 字段
//
//	GinJSONE(c, 401, token.ErrExpiredToken)
//	// {"code":401, "msg":"token: token expired"}
func GinJSONE(c *gin.Context, code int, data any) {
	if c == nil {
		return
	}

	var msg string
	var respData any

	switch v := data.(type) {
	case error:
		msg = errorMessage(v)
	case string:
		msg = v
	case nil:
		msg = defaultErrorMsg
	default:
		respData = v
	}

	c.JSON(http.StatusOK, &Response[any]{
		Code: code,
		Msg:  msg,
		Data: respData,
	})
}

// GinError 以错误自身的 code 写入响应，非 errors.Error 使用 errors.UnknownCode
func GinError(c *gin.Context, err error) {
	GinJSONE(c, errors.Code(err), err)
}

func errorMessage(err error) string {
	if e := errors.FromError(err); e != nil && e.Message != "" {
		return e.Message
	}
	return defaultErrorMsg
}

// Success 构造成功响应
func Success[T any](data T) *Response[T] {
	return &Response[T]{
		Code: successCode,
		Msg:  defaultSuccessMsg,
		Data: data,
	}
}

// Failure 构造失败响应
func Failure(code int, msg string) *Response[any] {
	return &Response[any]{
		Code: code,
		Msg:  msg,
	}
}
