package services

import (
	"errors"
	"fmt"
)

// Expected, recoverable conditions. Handlers match these with errors.Is and
// turn them into user-facing messages.
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("password is incorrect")
	ErrUnknownAuthor     = errors.New("author does not exist")
	ErrUnknownPost       = errors.New("post does not exist")
	ErrPostNotFound      = errors.New("post not found")
	ErrInvalidParent     = errors.New("parent comment does not belong to this post")
	ErrUnauthenticated   = errors.New("not logged in")
	ErrInvalidInput      = errors.New("invalid input")
)

// ErrStorageUnavailable marks database failures, the one unrecoverable class.
// Handlers map it to a 500 instead of a validation message.
var ErrStorageUnavailable = errors.New("storage unavailable")

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
