package domain

import "errors"

var (
	// ErrUnauthorized indicates the caller has no resolvable identity.
	ErrUnauthorized = errors.New("user must be authenticated with a subject claim")
	// ErrNotFound indicates the record does not exist for the caller.
	// Reads deliberately collapse "exists but not yours" into this error so
	// existence is not leaked to non-owners.
	ErrNotFound = errors.New("medical record not found")
	// ErrAccessDenied indicates the record exists but the caller does not own it.
	ErrAccessDenied = errors.New("you do not have permission to access this record")
)
