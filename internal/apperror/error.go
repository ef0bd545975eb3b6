// Package apperror 定义对账单工具统一使用的结构化错误。
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// 错误码
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeNoData     = "NO_DATA"
	CodeFileExists = "FILE_EXISTS"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeBusy       = "BUSY"
	CodeInternal   = "INTERNAL_ERROR"
)

// AppError 带错误码的业务错误
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

// Error 实现 error 接口。
// 冲突错误的文本以 "FILE_EXISTS:" 开头，与渲染服务的线上格式保持一致。
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 追加错误详情
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause 设置底层错误
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewConfig 配置错误（如未设置输出目录），不会发送到服务端
func NewConfig(message string) *AppError {
	return &AppError{
		Code:       CodeConfig,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNoData 无数据
func NewNoData(message string) *AppError {
	return &AppError{
		Code:       CodeNoData,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFileExists 目标对账单已存在
func NewFileExists(fileName string) *AppError {
	return &AppError{
		Code:       CodeFileExists,
		Message:    fileName,
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"file": fileName},
	}
}

// NewValidation 请求参数错误
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound 资源不存在
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s 不存在", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusy 已有生成任务在进行中
func NewBusy() *AppError {
	return &AppError{
		Code:       CodeBusy,
		Message:    "已有对账单正在生成，请稍候",
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternal 内部错误
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "内部错误",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// As 从错误链中取出 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is 判断错误链中是否存在指定错误码
func Is(err error, code string) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsFileExists 判断是否为"文件已存在"冲突。
// 兼容只返回字符串错误的渲染服务：文本中包含 FILE_EXISTS 即视为冲突。
func IsFileExists(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, CodeFileExists) {
		return true
	}
	return strings.Contains(err.Error(), CodeFileExists)
}

// HTTPStatus 返回错误对应的 HTTP 状态码
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// ToAppError 将任意错误转换为 AppError
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return NewInternal(err)
}
