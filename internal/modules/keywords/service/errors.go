package service

import "errors"

var (
	// ErrValidation indicates invalid request input (HTTP 400).
	ErrValidation = errors.New("validation error")

	// ErrInternal indicates a provider failure (HTTP 500).
	ErrInternal = errors.New("internal error")
)
