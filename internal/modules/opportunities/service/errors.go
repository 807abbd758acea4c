package service

import "errors"

// Sentinel errors classified by the handlers with errors.Is.
var (
	// ErrValidation indicates invalid request input (HTTP 400).
	ErrValidation = errors.New("validation error")

	// ErrInternal indicates an upstream or storage failure (HTTP 500).
	ErrInternal = errors.New("internal error")
)
