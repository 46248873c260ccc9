package mjpeg

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// session owns one engine context and its two buffer groups, and carries
// the per-session statistics. It is the shared core under Encoder and
// Decoder.
//
// Acquisition order is fixed: context, frame group, packet group,
// configure. Any failure unwinds strictly in reverse, so a caller never
// observes a half-built session. Release on close follows the same reverse
// order: packet group, frame group, context.
//
// All mutable state and every engine call is guarded by mu. One session
// processes at most one unit at a time; concurrent callers serialize on
// the lock.
type session struct {
	mu sync.Mutex

	mode CodingMode
	cfg  ContextConfig

	ctx         Context
	frameGroup  BufferGroup
	packetGroup BufferGroup

	initialized bool
	closed      bool

	frames uint64
	bytes  uint64
}

// newSession acquires the context and buffer groups in order and applies
// the configuration. On any failure the already-acquired resources are
// released in reverse order and no session is returned.
func newSession(engine Engine, mode CodingMode, cfg ContextConfig) (*session, error) {
	ctx, err := engine.AcquireContext(mode, cfg)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"mode":  mode,
			"error": err,
		}).Error("failed to acquire codec context")
		return nil, fmt.Errorf("acquire %s context: %w", mode, err)
	}

	frameGroup, err := ctx.AllocGroup(GroupFrame)
	if err != nil {
		ctx.Release()
		logrus.WithFields(logrus.Fields{
			"mode":  mode,
			"error": err,
		}).Error("failed to allocate frame buffer group")
		return nil, fmt.Errorf("alloc frame group: %w", err)
	}

	packetGroup, err := ctx.AllocGroup(GroupPacket)
	if err != nil {
		frameGroup.Release()
		ctx.Release()
		logrus.WithFields(logrus.Fields{
			"mode":  mode,
			"error": err,
		}).Error("failed to allocate packet buffer group")
		return nil, fmt.Errorf("alloc packet group: %w", err)
	}

	if err := ctx.Configure(); err != nil {
		packetGroup.Release()
		frameGroup.Release()
		ctx.Release()
		logrus.WithFields(logrus.Fields{
			"mode":  mode,
			"error": err,
		}).Error("failed to configure codec context")
		return nil, fmt.Errorf("configure %s context: %w", mode, err)
	}

	s := &session{
		mode:        mode,
		cfg:         cfg,
		ctx:         ctx,
		frameGroup:  frameGroup,
		packetGroup: packetGroup,
		initialized: true,
	}

	logrus.WithFields(logrus.Fields{
		"mode":   mode,
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Debug("codec session created")

	return s, nil
}

// process submits one input unit and retrieves one output unit. Counters
// advance only on success.
func (s *session) process(src, dst []byte) (int, FrameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, FrameInfo{}, ErrClosed
	}
	if !s.initialized {
		return 0, FrameInfo{}, fmt.Errorf("%w: session not initialized", ErrInit)
	}

	n, info, err := s.ctx.Process(src, dst)
	if err != nil {
		return 0, FrameInfo{}, err
	}

	s.frames++
	s.bytes += uint64(n)

	return n, info, nil
}

// stats copies out the running counters.
func (s *session) stats() (frames, bytes uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, ErrClosed
	}
	return s.frames, s.bytes, nil
}

// close releases the packet group, the frame group, and the context, in
// that exact order (reverse of acquisition). The session is tombstoned:
// a second close or any later use returns ErrClosed instead of touching
// released handles.
func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session already closed", ErrClosed)
	}
	s.closed = true

	var firstErr error
	if s.initialized {
		if err := s.packetGroup.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.frameGroup.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.ctx.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.packetGroup = nil
	s.frameGroup = nil
	s.ctx = nil
	s.initialized = false

	logrus.WithFields(logrus.Fields{
		"mode":   s.mode,
		"frames": s.frames,
		"bytes":  s.bytes,
	}).Debug("codec session closed")

	return firstErr
}
