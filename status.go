package mjpeg

import "errors"

// Status mirrors the wire-level status codes of the native MJPEG wrapper
// API. Go callers normally work with the sentinel errors below; Status
// exists for logging and for bindings that need the numeric codes.
type Status int32

const (
	StatusOK           Status = 0
	StatusInvalidParam Status = -1
	StatusMemory       Status = -2
	StatusInit         Status = -3
	StatusEncode       Status = -4
	StatusDecode       Status = -5
	StatusTimeout      Status = -6
	StatusNotReady     Status = -7
	StatusUnknown      Status = -99
)

// String returns the human-readable message for a status code.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "Success"
	case StatusInvalidParam:
		return "Invalid parameter"
	case StatusMemory:
		return "Memory allocation failed"
	case StatusInit:
		return "Initialization failed"
	case StatusEncode:
		return "Encoding failed"
	case StatusDecode:
		return "Decoding failed"
	case StatusTimeout:
		return "Operation timeout"
	case StatusNotReady:
		return "Data not ready"
	default:
		return "Unknown error"
	}
}

// Sentinel errors returned by the package. Wrapped errors carry context;
// match with errors.Is.
var (
	ErrInvalidParam = errors.New("invalid parameter")
	ErrMemory       = errors.New("memory allocation failed")
	ErrInit         = errors.New("initialization failed")
	ErrEncodeFailed = errors.New("encoding failed")
	ErrDecodeFailed = errors.New("decoding failed")
	ErrTimeout      = errors.New("operation timeout")
	ErrNotReady     = errors.New("data not ready")
	ErrUnknown      = errors.New("unknown error")

	// ErrClosed is returned when a session is used after Close. Maps to
	// StatusInvalidParam at the status level: the handle is no longer valid.
	ErrClosed = errors.New("session closed")
)

// StatusOf maps an error returned by this package to its status code.
// A nil error maps to StatusOK; unrecognized errors map to StatusUnknown.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidParam), errors.Is(err, ErrClosed):
		return StatusInvalidParam
	case errors.Is(err, ErrMemory):
		return StatusMemory
	case errors.Is(err, ErrInit):
		return StatusInit
	case errors.Is(err, ErrEncodeFailed):
		return StatusEncode
	case errors.Is(err, ErrDecodeFailed):
		return StatusDecode
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	case errors.Is(err, ErrNotReady):
		return StatusNotReady
	default:
		return StatusUnknown
	}
}
