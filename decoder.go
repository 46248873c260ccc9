package mjpeg

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DecoderStats provides decoding metrics. Counters are monotonic and never
// reset for the lifetime of the session.
type DecoderStats struct {
	FramesDecoded uint64 // Total frames decoded
	BytesDecoded  uint64 // Total bytes of NV12 output produced
}

// Decoder is an MJPEG to NV12 decoder session bound to one engine context.
//
// A Decoder is safe for concurrent use; calls serialize on the session
// lock. After Close the Decoder must not be reused.
type Decoder struct {
	cfg  DecoderConfig
	sess *session
}

// NewDecoder validates the configuration, binds an engine context with a
// frame and a packet buffer group, and returns a ready decoder session.
// No engine resource is touched if validation fails.
func NewDecoder(cfg DecoderConfig, opts ...Option) (*Decoder, error) {
	if err := cfg.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"max_width":  cfg.MaxWidth,
			"max_height": cfg.MaxHeight,
			"error":      err,
		}).Error("invalid decoder configuration")
		return nil, err
	}

	engine, err := resolveEngine(opts)
	if err != nil {
		return nil, err
	}

	sess, err := newSession(engine, ModeDecode, ContextConfig{
		Width:  cfg.MaxWidth,
		Height: cfg.MaxHeight,
		Format: cfg.OutputFormat,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"max_width":  cfg.MaxWidth,
		"max_height": cfg.MaxHeight,
		"format":     cfg.OutputFormat,
	}).Info("MJPEG decoder created")

	return &Decoder{cfg: cfg, sess: sess}, nil
}

// Decode decompresses one MJPEG image from src into dst and returns the
// number of NV12 bytes produced along with the decoded frame geometry.
//
// src must be non-empty; its length is otherwise arbitrary, since a
// compressed stream has no fixed size. Statistics are unchanged when
// Decode fails.
func (d *Decoder) Decode(src, dst []byte) (int, FrameInfo, error) {
	if src == nil || dst == nil {
		return 0, FrameInfo{}, fmt.Errorf("%w: nil buffer", ErrInvalidParam)
	}
	if len(src) == 0 {
		return 0, FrameInfo{}, fmt.Errorf("%w: empty MJPEG input", ErrInvalidParam)
	}

	return d.sess.process(src, dst)
}

// Stats returns the running decoder statistics.
func (d *Decoder) Stats() (DecoderStats, error) {
	frames, bytes, err := d.sess.stats()
	if err != nil {
		return DecoderStats{}, err
	}
	return DecoderStats{FramesDecoded: frames, BytesDecoded: bytes}, nil
}

// Config returns the decoder configuration.
func (d *Decoder) Config() DecoderConfig {
	return d.cfg
}

// MaxFrameSize returns the NV12 output size for the configured maximum
// resolution. Callers can use it to size their output buffers.
func (d *Decoder) MaxFrameSize() int {
	return NV12Size(d.cfg.MaxWidth, d.cfg.MaxHeight)
}

// Close releases the buffer groups and the engine context. The Decoder is
// consumed: a second Close or any later call returns ErrClosed.
func (d *Decoder) Close() error {
	return d.sess.close()
}
