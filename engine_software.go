package mjpeg

import "fmt"

// softwareEngine is a passthrough engine used when no hardware backend is
// available and as the test double for the session layer. It performs no
// real pixel transform: Process copies input bytes to the output buffer,
// which preserves the full session and buffer contract.
type softwareEngine struct{}

func newSoftwareEngine() *softwareEngine {
	return &softwareEngine{}
}

func (e *softwareEngine) AcquireContext(mode CodingMode, cfg ContextConfig) (Context, error) {
	return &softwareContext{mode: mode, cfg: cfg}, nil
}

type softwareContext struct {
	mode     CodingMode
	cfg      ContextConfig
	released bool
}

func (c *softwareContext) AllocGroup(kind GroupKind) (BufferGroup, error) {
	if c.released {
		return nil, fmt.Errorf("%w: context released", ErrInit)
	}
	return &softwareGroup{kind: kind}, nil
}

func (c *softwareContext) Configure() error {
	if c.released {
		return fmt.Errorf("%w: context released", ErrInit)
	}
	return nil
}

func (c *softwareContext) Process(src, dst []byte) (int, FrameInfo, error) {
	if c.released {
		return 0, FrameInfo{}, fmt.Errorf("%w: context released", ErrInit)
	}

	// Passthrough transform: copy as much input as the output holds.
	n := copy(dst, src)

	var info FrameInfo
	if c.mode == ModeDecode {
		info = FrameInfo{
			Width:  c.cfg.Width,
			Height: c.cfg.Height,
			Format: c.cfg.Format,
		}
	}
	return n, info, nil
}

func (c *softwareContext) Release() error {
	if c.released {
		return fmt.Errorf("%w: context already released", ErrInvalidParam)
	}
	c.released = true
	return nil
}

type softwareGroup struct {
	kind     GroupKind
	released bool
}

func (g *softwareGroup) Kind() GroupKind { return g.kind }

func (g *softwareGroup) Release() error {
	if g.released {
		return fmt.Errorf("%w: %s group already released", ErrInvalidParam, g.kind)
	}
	g.released = true
	return nil
}
