package domain

import "errors"

var (
	ErrValidation       = errors.New("invalid input")
	ErrPermissionDenied = errors.New("only the creator or an admin can change this wish")
	ErrWishNotFound     = errors.New("wish not found")
	ErrAlreadyVoted     = errors.New("user has already voted for this wish")
	ErrDuplicateWishID  = errors.New("wish id already exists")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrTransport        = errors.New("transport failure")
	ErrInternal         = errors.New("internal server error")
)
