package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrOrderNotFound       = kindOf(ErrNotFound, "order not found")
	ErrProductNotFound     = kindOf(ErrNotFound, "product not found")
	ErrConflict            = errors.New("already exists")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrIdentifierNotFound  = kindOf(ErrNotFound, "account not found")
	ErrInvalidCredentials  = errors.New("invalid password")
	ErrCodeInvalid         = errors.New("invalid verification code")
	ErrCodeExpired         = kindOf(ErrCodeInvalid, "verification code expired")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrUnavailable         = errors.New("backing store unavailable")
	ErrArchiveInconsistent = errors.New("order archive inconsistent")
	ErrDispatchFailed      = errors.New("email dispatch failed")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// kindOf builds a specific error that still matches its broader kind with errors.Is.
func kindOf(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// ValidationError lists the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
