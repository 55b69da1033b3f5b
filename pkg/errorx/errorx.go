// Package errorx 定义带业务码的错误类型
// Service 层只返回 *CodeError，Handler 层据此决定 HTTP 状态码和响应体
package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的错误，支持 errors.Is/errors.As 向下追溯
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 面向调用方的错误消息
	cause error  // 被包装的底层错误
}

func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 按业务码比较，使 errors.Is(err, errorx.ErrForbidden) 这类判断成立
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.cause == nil && t.Code == e.Code && t.Msg == e.Msg
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
// 用法: errorx.Wrap(err, CodeNotFound, "user not found")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode 提取业务错误码，非 CodeError 一律视为服务繁忙
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码
const (
	CodeSuccess         = 1000 // 成功
	CodeInvalidParam    = 1001 // 请求参数错误
	CodeUserExist       = 1002 // 用户已存在
	CodeUserNotExist    = 1003 // 用户不存在
	CodeInvalidPassword = 1004 // 密码错误
	CodeServerBusy      = 1005 // 服务繁忙
	CodeUnauthorized    = 1006 // 未授权/认证失败
	CodeForbidden       = 1007 // 无权限（如请求已被拒绝）
	CodeNotFound        = 1008 // 资源不存在
	CodeConflict        = 1009 // 资源冲突（唯一键、幂等键重复）
	CodeDBError         = 1010 // 数据库错误
	CodeCacheError      = 1011 // 缓存错误
	CodeTooManyRequests = 1012 // 请求过于频繁
)

// 预定义常用错误
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid request parameters")
	ErrServerBusy      = New(CodeServerBusy, "server busy, please try again later")
	ErrUnauthorized    = New(CodeUnauthorized, "authentication required")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
)

// IsNotFound 判断错误是否为"未找到"
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound && err != nil
}

// IsConflict 判断错误是否为唯一约束冲突
func IsConflict(err error) bool {
	return GetCode(err) == CodeConflict && err != nil
}
