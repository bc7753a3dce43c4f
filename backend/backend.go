package backend

import (
	"errors"

	"github.com/gogpu/pixio/decode"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnknownFormat is returned when no registered backend accepts a stream.
	ErrUnknownFormat = errors.New("backend: unknown image format")
)

// SniffLen is the number of leading bytes handed to Match.
const SniffLen = 16

// Backend is the contract a decoder implements; see decode.Backend.
type Backend = decode.Backend
