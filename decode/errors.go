package decode

import (
	"errors"
	"fmt"
)

// Protocol errors. They mean a backend broke the session contract.
var (
	// ErrFrameOpen is returned by BeginFrame while another frame is open.
	ErrFrameOpen = errors.New("decode: frame already open")

	// ErrNoFrame is returned by FinishFrame when no frame is open.
	ErrNoFrame = errors.New("decode: no frame open")

	// ErrFinished is returned by operations on a finished session.
	ErrFinished = errors.New("decode: session finished")

	// ErrInvalidHeader is returned when a frame header has unusable geometry
	// or format.
	ErrInvalidHeader = errors.New("decode: invalid frame header")
)

// Error is a fatal decode failure reported by a backend.
type Error struct {
	// Codec names the backend, such as "png".
	Codec string

	// Msg describes the failure.
	Msg string

	// Err is the underlying error, if any.
	Err error
}

// NewError returns an Error for codec with the given message.
func NewError(codec, msg string) *Error {
	return &Error{Codec: codec, Msg: msg}
}

// Errorf returns an Error for codec with a formatted message. A %w verb
// wraps its operand as the underlying error.
func Errorf(codec, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Codec: codec, Msg: err.Error(), Err: errors.Unwrap(err)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "decode: " + e.Codec + ": " + e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
