package validator

import "errors"

// ErrInvalidInput signals a structurally unusable record, as opposed to an inconsistent pair
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidThreshold signals a threshold override that can not be used
var ErrInvalidThreshold = errors.New("invalid threshold")

// ErrUnknownCode signals a code outside the closed vocabulary
var ErrUnknownCode = errors.New("unknown validation code")
