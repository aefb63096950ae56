package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrMissingParams = errors.New("Missing query parameters")
	ErrUnexpected    = errors.New("Internal server error")
)

var ErrorMap = map[error]int{
	ErrMissingParams: BadRequest,
	ErrUnexpected:    InternalServerError,
}
