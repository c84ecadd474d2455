package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeInvalidRequest  ErrorCode = "InvalidRequest"
	ErrCodeNotFound        ErrorCode = "NotFound"
	ErrCodeUpstreamTimeout ErrorCode = "UpstreamTimeout"
	ErrCodeUpstream        ErrorCode = "UpstreamError"
	ErrCodeRateLimited     ErrorCode = "TooManyRequests"
	ErrCodeInternal        ErrorCode = "FailedToProcessRequest"
)

// AppError - ошибка с явным видом, по которому HTTP слой выбирает статус.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func InvalidRequest(format string, args ...any) *AppError {
	return Newf(ErrCodeInvalidRequest, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return Newf(ErrCodeNotFound, format, args...)
}

func Internal(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

// Upstream классифицирует ошибку внешнего сервиса: таймаут отделяется от прочих сбоев.
// Уже типизированные ошибки возвращаются как есть.
func Upstream(err error, service string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if IsTimeout(err) {
		return Wrap(err, ErrCodeUpstreamTimeout, service+": превышено время ожидания ответа")
	}
	return Wrap(err, ErrCodeUpstream, service+": внешний сервис вернул ошибку")
}

// IsTimeout распознаёт таймауты по типу, а не по имени.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstream:
		return http.StatusBadGateway
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает вид ошибки; всё нетипизированное считается внутренней ошибкой.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeNotFound
}

func IsInvalidRequest(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeInvalidRequest
}

func IsUpstreamTimeout(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeUpstreamTimeout
}

// IsPermanent сообщает, что повтор запроса не изменит результат.
func IsPermanent(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidRequest, ErrCodeNotFound:
		return true
	}
	return false
}
