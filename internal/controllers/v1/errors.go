package v1

import "errors"

var (
	errInvalidDate = errors.New("the date must be in YYYY-MM-DD or RFC3339 format")
	errEmptyText   = errors.New("the text must not be empty")
)
