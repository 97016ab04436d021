package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrQueryRejected = errors.New("query rejected")
	ErrRateLimited   = errors.New("rate limit exceeded")
)
