package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input has no usable shortlink segment.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("shortlink not found")

	// ErrTemplate is matched by every template parse error.
	ErrTemplate = errors.New("malformed template")

	ErrUnterminatedConditional = fmt.Errorf("%w: unterminated conditional", ErrTemplate)
	ErrUnexpectedToken         = fmt.Errorf("%w: unexpected token", ErrTemplate)
)

// NotFoundError reports a lookup miss for the normalized shortlink.
type NotFoundError struct {
	Shortlink string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("shortlink '%s' not found", e.Shortlink)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TemplateError is a parse error in a stored long URL. Err is
// ErrUnterminatedConditional or ErrUnexpectedToken.
type TemplateError struct {
	Err    error
	Token  string
	Offset int
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%v %q at offset %d", e.Err, e.Token, e.Offset)
}

func (e *TemplateError) Unwrap() error { return e.Err }
