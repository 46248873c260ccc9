//go:build linux && !nompp

// Rockchip MPP backend via libmjpeg_mpp using purego.
//
// libmjpeg_mpp is a thin wrapper around the Rockchip MPP SDK exposing a
// primitive-only API (integer handles and raw pointers), loaded dynamically
// at runtime so the package builds and tests without the SDK installed.
//
// Library locations checked (in order):
//   - MJPEG_MPP_LIB_PATH environment variable
//   - directory of the running executable
//   - System library paths

package mjpeg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	mppOnce    sync.Once
	mppHandle  uintptr
	mppInitErr error
	mppLoaded  bool
)

// libmjpeg_mpp function pointers
var (
	mppCtxCreate    func(mode int32) uint64
	mppCtxConfigure func(ctx uint64, width, height, fps, bitrate, quality, format int32) int32
	mppCtxDestroy   func(ctx uint64) int32
	mppGroupAlloc   func(ctx uint64, kind int32) uint64
	mppGroupFree    func(group uint64) int32
	mppProcess      func(ctx uint64, src uintptr, srcLen int32, dst uintptr, dstCap int32, infoOut uintptr) int32
	mppLastError    func() uintptr
	mppAvailable    func() int32
)

// mppFrameInfo matches mjpeg_mpp_frame_info_t in C.
// Must be heap-allocated for purego to work correctly on arm64.
type mppFrameInfo struct {
	Width     int32
	Height    int32
	Format    int32
	Reserved  int32
	Timestamp uint64
}

// Constants from mjpeg_mpp.h
const (
	mppModeEncode = 0
	mppModeDecode = 1

	mppGroupKindFrame  = 0
	mppGroupKindPacket = 1

	mppFormatNV12 = 0

	mppOK          = 0
	mppErrMemory   = -2
	mppErrInit     = -3
	mppErrEncode   = -4
	mppErrDecode   = -5
	mppErrTimeout  = -6
	mppErrNotReady = -7
)

// loadMPP loads the libmjpeg_mpp shared library.
func loadMPP() error {
	mppOnce.Do(func() {
		mppInitErr = loadMPPLib()
		if mppInitErr == nil {
			mppLoaded = true
			setBackendAvailable(BackendMPP)
		}
	})
	return mppInitErr
}

func loadMPPLib() error {
	paths := mppLibPaths()

	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			mppHandle = handle
			loadMPPSymbols()
			if mppAvailable() == 0 {
				purego.Dlclose(handle)
				lastErr = errors.New("mpp hardware not present")
				continue
			}
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to load libmjpeg_mpp: %w", lastErr)
	}
	return errors.New("libmjpeg_mpp not found in any standard location")
}

func mppLibPaths() []string {
	var paths []string

	const libName = "libmjpeg_mpp.so"

	if envPath := os.Getenv("MJPEG_MPP_LIB_PATH"); envPath != "" {
		paths = append(paths, filepath.Join(envPath, libName), envPath)
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}

	paths = append(paths,
		libName,
		"/usr/local/lib/"+libName,
		"/usr/lib/"+libName,
	)

	return paths
}

func loadMPPSymbols() {
	purego.RegisterLibFunc(&mppCtxCreate, mppHandle, "mjpeg_mpp_ctx_create")
	purego.RegisterLibFunc(&mppCtxConfigure, mppHandle, "mjpeg_mpp_ctx_configure")
	purego.RegisterLibFunc(&mppCtxDestroy, mppHandle, "mjpeg_mpp_ctx_destroy")
	purego.RegisterLibFunc(&mppGroupAlloc, mppHandle, "mjpeg_mpp_group_alloc")
	purego.RegisterLibFunc(&mppGroupFree, mppHandle, "mjpeg_mpp_group_free")
	purego.RegisterLibFunc(&mppProcess, mppHandle, "mjpeg_mpp_process")
	purego.RegisterLibFunc(&mppLastError, mppHandle, "mjpeg_mpp_last_error")
	purego.RegisterLibFunc(&mppAvailable, mppHandle, "mjpeg_mpp_available")
}

// IsMPPAvailable checks if the Rockchip MPP backend is available.
func IsMPPAvailable() bool {
	if err := loadMPP(); err != nil {
		return false
	}
	return mppLoaded
}

func mppError() string {
	ptr := mppLastError()
	if ptr == 0 {
		return "unknown error"
	}
	return goStringFromPtr(ptr)
}

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	// ptr is a C pointer returned by the foreign library, not a Go
	// pointer; reinterpret it in a form vet's unsafeptr check accepts.
	p := *(*unsafe.Pointer)(unsafe.Pointer(&ptr))
	var length int
	for {
		if *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) == 0 {
			break
		}
		length++
		if length > 1024 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// mppStatusErr maps a negative libmjpeg_mpp return code to a sentinel error.
func mppStatusErr(code int32) error {
	switch code {
	case mppErrMemory:
		return ErrMemory
	case mppErrInit:
		return ErrInit
	case mppErrEncode:
		return ErrEncodeFailed
	case mppErrDecode:
		return ErrDecodeFailed
	case mppErrTimeout:
		return ErrTimeout
	case mppErrNotReady:
		return ErrNotReady
	default:
		return ErrUnknown
	}
}

// mppEngine implements Engine on top of libmjpeg_mpp.
type mppEngine struct{}

func newMPPEngine() (Engine, error) {
	if err := loadMPP(); err != nil {
		return nil, fmt.Errorf("%w: mpp backend not available: %v", ErrInit, err)
	}
	return &mppEngine{}, nil
}

func (e *mppEngine) AcquireContext(mode CodingMode, cfg ContextConfig) (Context, error) {
	m := int32(mppModeEncode)
	if mode == ModeDecode {
		m = mppModeDecode
	}

	handle := mppCtxCreate(m)
	if handle == 0 {
		return nil, fmt.Errorf("%w: mpp context create: %s", ErrInit, mppError())
	}
	return &mppContext{handle: handle, mode: mode, cfg: cfg}, nil
}

type mppContext struct {
	handle uint64
	mode   CodingMode
	cfg    ContextConfig
}

func (c *mppContext) AllocGroup(kind GroupKind) (BufferGroup, error) {
	k := int32(mppGroupKindFrame)
	if kind == GroupPacket {
		k = mppGroupKindPacket
	}
	handle := mppGroupAlloc(c.handle, k)
	if handle == 0 {
		return nil, fmt.Errorf("%w: mpp %s group alloc: %s", ErrMemory, kind, mppError())
	}
	return &mppGroup{handle: handle, kind: kind}, nil
}

func (c *mppContext) Configure() error {
	ret := mppCtxConfigure(c.handle,
		int32(c.cfg.Width), int32(c.cfg.Height),
		int32(c.cfg.FPS), int32(c.cfg.Bitrate), int32(c.cfg.Quality),
		mppFormatNV12)
	if ret != mppOK {
		return fmt.Errorf("mpp configure: %s: %w", mppError(), mppStatusErr(ret))
	}
	return nil
}

func (c *mppContext) Process(src, dst []byte) (int, FrameInfo, error) {
	if len(src) == 0 || len(dst) == 0 {
		return 0, FrameInfo{}, fmt.Errorf("%w: empty buffer", ErrInvalidParam)
	}

	info := new(mppFrameInfo)
	ret := mppProcess(c.handle,
		uintptr(unsafe.Pointer(&src[0])), int32(len(src)),
		uintptr(unsafe.Pointer(&dst[0])), int32(len(dst)),
		uintptr(unsafe.Pointer(info)))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)
	if ret < 0 {
		return 0, FrameInfo{}, fmt.Errorf("mpp process: %s: %w", mppError(), mppStatusErr(ret))
	}

	var out FrameInfo
	if c.mode == ModeDecode {
		out = FrameInfo{
			Width:     int(info.Width),
			Height:    int(info.Height),
			Format:    PixelFormatNV12,
			Timestamp: info.Timestamp,
		}
	}
	runtime.KeepAlive(info)
	return int(ret), out, nil
}

func (c *mppContext) Release() error {
	if ret := mppCtxDestroy(c.handle); ret != mppOK {
		return fmt.Errorf("mpp context destroy: %w", mppStatusErr(ret))
	}
	c.handle = 0
	return nil
}

type mppGroup struct {
	handle uint64
	kind   GroupKind
}

func (g *mppGroup) Kind() GroupKind { return g.kind }

func (g *mppGroup) Release() error {
	if ret := mppGroupFree(g.handle); ret != mppOK {
		return fmt.Errorf("mpp %s group free: %w", g.kind, mppStatusErr(ret))
	}
	g.handle = 0
	return nil
}
