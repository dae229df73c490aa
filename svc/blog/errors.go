package blog

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthor          = errors.New("actor is not the author of the post")
	ErrRoleTooHigh        = errors.New("role outranks the assigning actor")
	ErrNotOutranked       = errors.New("target is not outranked by the actor")
)
