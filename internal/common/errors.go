package common

import "errors"

var (
	// storage errors
	ErrorNotFound     = errors.New("not found")
	ErrorDuplicateKey = errors.New("duplicate key")

	// service errors
	ErrorInvalidInput = errors.New("invalid input")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidToken = errors.New("invalid token")
)
