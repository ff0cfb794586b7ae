// Package apperr 资源加载错误分类
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind string

const (
	KindTransport Kind = "transport" // 网络失败或非 2xx 状态
	KindDecode    Kind = "decode"    // JSON / 表格解码失败
	KindShape     Kind = "shape"     // 结构校验失败（缺少数组、空数据）
)

// Error 带资源路径的加载错误
type Error struct {
	Kind   Kind
	Path   string
	Status int // 仅 transport 类别且有 HTTP 响应时非 0
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason())
}

// Reason 不含路径的失败原因
func (e *Error) Reason() string {
	reason := "unknown error"
	if e.Err != nil {
		reason = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d %s: %s", e.Status, http.StatusText(e.Status), reason)
	}
	return reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport 创建传输错误
func Transport(path string, status int, err error) *Error {
	return &Error{Kind: KindTransport, Path: path, Status: status, Err: err}
}

// Decode 创建解码错误
func Decode(path string, err error) *Error {
	return &Error{Kind: KindDecode, Path: path, Err: err}
}

// Shape 创建结构错误
func Shape(path, format string, args ...any) *Error {
	return &Error{Kind: KindShape, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf 返回错误类别，非 *Error 返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf 失败原因；*Error 去掉路径前缀
func ReasonOf(err error) string {
	if err == nil {
		return "unknown error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Reason()
	}
	return err.Error()
}

// StatusOf 返回 HTTP 状态码（没有则为 0）
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
