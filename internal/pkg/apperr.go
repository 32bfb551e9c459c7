package pkg

import (
	"errors"
	"net/http"
)

// ErrKind 业务错误类型，boundary 层只根据 Kind 映射状态码，禁止匹配错误文案
type ErrKind int

const (
	KindInternal ErrKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

type AppError struct {
	Kind    ErrKind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func BadRequest(msg string) error   { return &AppError{Kind: KindBadRequest, Message: msg} }
func Unauthorized(msg string) error { return &AppError{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &AppError{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error     { return &AppError{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error     { return &AppError{Kind: KindConflict, Message: msg} }

func KindOf(err error) ErrKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
