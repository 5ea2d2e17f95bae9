package service

import "errors"

var (
	// ErrNotFound covers both a missing resource and one owned by another
	// user. The two cases are indistinguishable to the caller.
	ErrNotFound = errors.New("resource not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNameRequired       = errors.New("name must not be empty")
	ErrTitleRequired      = errors.New("title must not be empty")
	ErrUnknownAttribute   = errors.New("tag or ingredient does not exist")
	ErrNotAnImage         = errors.New("uploaded file is not a valid image")
)
