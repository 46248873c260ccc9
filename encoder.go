package mjpeg

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EncoderStats provides encoding metrics. Counters are monotonic and never
// reset for the lifetime of the session.
type EncoderStats struct {
	FramesEncoded uint64 // Total frames encoded
	BytesEncoded  uint64 // Total bytes of MJPEG output produced
}

// Encoder is an NV12 to MJPEG encoder session bound to one engine context.
//
// An Encoder is safe for concurrent use; calls serialize on the session
// lock. After Close the Encoder must not be reused.
type Encoder struct {
	cfg  EncoderConfig
	sess *session
}

// NewEncoder validates the configuration, binds an engine context with a
// frame and a packet buffer group, and returns a ready encoder session.
// No engine resource is touched if validation fails.
func NewEncoder(cfg EncoderConfig, opts ...Option) (*Encoder, error) {
	if err := cfg.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"width":  cfg.Width,
			"height": cfg.Height,
			"fps":    cfg.FPS,
			"error":  err,
		}).Error("invalid encoder configuration")
		return nil, err
	}
	cfg.Quality = cfg.effectiveQuality()

	engine, err := resolveEngine(opts)
	if err != nil {
		return nil, err
	}

	sess, err := newSession(engine, ModeEncode, ContextConfig{
		Width:   cfg.Width,
		Height:  cfg.Height,
		FPS:     cfg.FPS,
		Bitrate: cfg.Bitrate,
		Quality: cfg.Quality,
		Format:  PixelFormatNV12,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"width":   cfg.Width,
		"height":  cfg.Height,
		"fps":     cfg.FPS,
		"quality": cfg.Quality,
	}).Info("MJPEG encoder created")

	return &Encoder{cfg: cfg, sess: sess}, nil
}

// Encode compresses one NV12 frame into dst and returns the number of
// MJPEG bytes produced.
//
// src must hold at least NV12Size(width, height) bytes for the configured
// resolution, and dst must have capacity for the same size. Statistics are
// unchanged when Encode fails.
func (e *Encoder) Encode(src, dst []byte) (int, error) {
	if src == nil || dst == nil {
		return 0, fmt.Errorf("%w: nil buffer", ErrInvalidParam)
	}

	need := NV12Size(e.cfg.Width, e.cfg.Height)
	if len(src) < need {
		return 0, fmt.Errorf("%w: NV12 input too small: %d < %d",
			ErrInvalidParam, len(src), need)
	}
	if len(dst) < need {
		return 0, fmt.Errorf("%w: MJPEG output buffer too small: %d < %d",
			ErrInvalidParam, len(dst), need)
	}

	n, _, err := e.sess.process(src, dst)
	return n, err
}

// Stats returns the running encoder statistics.
func (e *Encoder) Stats() (EncoderStats, error) {
	frames, bytes, err := e.sess.stats()
	if err != nil {
		return EncoderStats{}, err
	}
	return EncoderStats{FramesEncoded: frames, BytesEncoded: bytes}, nil
}

// Config returns the encoder configuration, with the quality default
// applied.
func (e *Encoder) Config() EncoderConfig {
	return e.cfg
}

// FrameSize returns the required NV12 input size for the configured
// resolution.
func (e *Encoder) FrameSize() int {
	return NV12Size(e.cfg.Width, e.cfg.Height)
}

// Close releases the buffer groups and the engine context. The Encoder is
// consumed: a second Close or any later call returns ErrClosed.
func (e *Encoder) Close() error {
	return e.sess.close()
}
