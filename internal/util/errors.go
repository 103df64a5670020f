package util

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrReadOnlySource     = errors.New("datasource is read-only")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthDisabled       = errors.New("admin auth is disabled")
	ErrUpstreamDown       = errors.New("backend unavailable, it may be waking up")
	ErrAnswerNotFound     = errors.New("answer not found")
)
