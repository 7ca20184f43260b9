package domain

import "errors"

var (
	ErrNotFound          = errors.New("key not found")
	ErrMissingCredential = errors.New("api credential not configured")
	ErrEmptyResponse     = errors.New("model returned no choices")
	ErrModelNotFound     = errors.New("model not found")
	ErrAlreadyRated      = errors.New("message already rated")
	ErrButtonNotFound    = errors.New("quick button not found")
	ErrSavedChatNotFound = errors.New("saved chat not found")
	ErrEmptyHistory      = errors.New("chat history is empty")
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrTooManyFiles      = errors.New("attachment limit reached")
	ErrRateLimited       = errors.New("too many requests")
)
