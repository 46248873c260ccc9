package mjpeg

import "sync/atomic"

// CodingMode selects the codec pipe direction when acquiring a context.
type CodingMode int

const (
	ModeEncode CodingMode = iota // NV12 in, MJPEG out
	ModeDecode                   // MJPEG in, NV12 out
)

func (m CodingMode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// GroupKind identifies which of a session's two buffer groups a handle
// belongs to.
type GroupKind int

const (
	GroupFrame  GroupKind = iota // Raw frame buffers (NV12)
	GroupPacket                  // Compressed packet buffers (MJPEG)
)

func (k GroupKind) String() string {
	switch k {
	case GroupFrame:
		return "frame"
	case GroupPacket:
		return "packet"
	default:
		return "unknown"
	}
}

// ContextConfig carries the direction-specific parameters a context needs
// when it is configured. For decode contexts Width/Height are the maximum
// supported resolution.
type ContextConfig struct {
	Width   int
	Height  int
	FPS     int         // Encode only
	Bitrate int         // Encode only, 0 = auto
	Quality int         // Encode only, already defaulted
	Format  PixelFormat // Raw-side pixel format
}

// Engine is the codec hardware abstraction. It is implemented once for the
// Rockchip MPP backend and once as a software passthrough used for tests
// and as a fallback.
//
// AcquireContext binds a codec context for one direction. The returned
// context owns no buffer groups yet; the session layer allocates them and
// releases everything in reverse order.
type Engine interface {
	AcquireContext(mode CodingMode, cfg ContextConfig) (Context, error)
}

// Context is one bound codec pipe. A context is single-consumer: the
// session layer serializes all calls on it.
type Context interface {
	// AllocGroup allocates one of the context's buffer groups.
	AllocGroup(kind GroupKind) (BufferGroup, error)

	// Configure applies the context configuration to the hardware. Called
	// once, after both buffer groups exist.
	Configure() error

	// Process submits one input unit and retrieves one output unit,
	// returning the number of bytes produced. For decode, FrameInfo
	// describes the produced frame; for encode it is zero.
	Process(src, dst []byte) (int, FrameInfo, error)

	// Release tears down the context. Buffer groups must already be
	// released.
	Release() error
}

// BufferGroup is an engine-managed pool of buffer handles exchanged with
// the codec pipe.
type BufferGroup interface {
	Kind() GroupKind
	Release() error
}

// Backend identifies an engine implementation.
type Backend int

const (
	BackendAuto     Backend = iota // Prefer hardware, fall back to software
	BackendMPP                     // Rockchip MPP via libmjpeg_mpp
	BackendSoftware                // Passthrough engine, no real transform
	backendCount
)

func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendMPP:
		return "mpp"
	case BackendSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// Runtime availability, set by backend implementations.
var backendAvailable [backendCount]atomic.Bool

func init() {
	backendAvailable[BackendSoftware].Store(true)
}

// Available reports whether the backend is usable at runtime.
func (b Backend) Available() bool {
	if b < 0 || b >= backendCount {
		return false
	}
	if b == BackendAuto {
		return true
	}
	return backendAvailable[b].Load()
}

func setBackendAvailable(b Backend) {
	if b > BackendAuto && b < backendCount {
		backendAvailable[b].Store(true)
	}
}

// newEngine resolves a backend selection to an engine instance.
func newEngine(b Backend) (Engine, error) {
	switch b {
	case BackendAuto:
		if IsMPPAvailable() {
			return newMPPEngine()
		}
		return newSoftwareEngine(), nil
	case BackendMPP:
		return newMPPEngine()
	case BackendSoftware:
		return newSoftwareEngine(), nil
	default:
		return nil, ErrInvalidParam
	}
}
