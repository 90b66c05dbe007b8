// Package apperr carries the error taxonomy shared by the payment and asset
// workflows. Controllers switch on Code(err) to pick the HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrValidation       ErrCode = "VALIDATION"
	ErrInvalidState     ErrCode = "INVALID_STATE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

func New(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

func Newf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the error code, or "" for uncoded (internal) errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
