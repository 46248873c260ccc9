package mjpeg

import "fmt"

// Configuration limits enforced before any engine resource is acquired.
const (
	MinDimension = 16
	MaxDimension = 4096
	MinFPS       = 1
	MaxFPS       = 120
	MaxQuality   = 100

	// DefaultQuality is applied when EncoderConfig.Quality is left zero.
	DefaultQuality = 80
)

// EncoderConfig configures an MJPEG encoder session.
//
// All dimensions are in pixels. Configuration is immutable after the
// session is created.
type EncoderConfig struct {
	Width   int `yaml:"width"`   // Frame width (16-4096)
	Height  int `yaml:"height"`  // Frame height (16-4096)
	FPS     int `yaml:"fps"`     // Frames per second (1-120)
	Bitrate int `yaml:"bitrate"` // Target bitrate in bps (0 = auto)
	Quality int `yaml:"quality"` // JPEG quality 0-100 (0 = DefaultQuality)
	GOP     int `yaml:"gop"`     // GOP size; accepted but unused by MJPEG
}

// DefaultEncoderConfig returns an encoder configuration for the given
// resolution with typical defaults.
func DefaultEncoderConfig(width, height int) EncoderConfig {
	return EncoderConfig{
		Width:   width,
		Height:  height,
		FPS:     30,
		Bitrate: 0, // Auto
		Quality: DefaultQuality,
	}
}

// validate applies the configuration rules in order, failing fast on the
// first violation. It touches no engine resources.
func (c EncoderConfig) validate() error {
	if c.Width < MinDimension || c.Width > MaxDimension ||
		c.Height < MinDimension || c.Height > MaxDimension {
		return fmt.Errorf("%w: resolution %dx%d out of range [%d, %d]",
			ErrInvalidParam, c.Width, c.Height, MinDimension, MaxDimension)
	}
	if c.FPS < MinFPS || c.FPS > MaxFPS {
		return fmt.Errorf("%w: fps %d out of range [%d, %d]",
			ErrInvalidParam, c.FPS, MinFPS, MaxFPS)
	}
	if c.Quality < 0 || c.Quality > MaxQuality {
		return fmt.Errorf("%w: quality %d out of range [0, %d]",
			ErrInvalidParam, c.Quality, MaxQuality)
	}
	return nil
}

// effectiveQuality resolves the quality default: 0 means unset.
func (c EncoderConfig) effectiveQuality() int {
	if c.Quality == 0 {
		return DefaultQuality
	}
	return c.Quality
}

// DecoderConfig configures an MJPEG decoder session.
type DecoderConfig struct {
	MaxWidth     int         `yaml:"max_width"`     // Maximum frame width (16-4096)
	MaxHeight    int         `yaml:"max_height"`    // Maximum frame height (16-4096)
	OutputFormat PixelFormat `yaml:"output_format"` // Only NV12 is supported
}

// DefaultDecoderConfig returns a decoder configuration for the given
// maximum resolution.
func DefaultDecoderConfig(maxWidth, maxHeight int) DecoderConfig {
	return DecoderConfig{
		MaxWidth:     maxWidth,
		MaxHeight:    maxHeight,
		OutputFormat: PixelFormatNV12,
	}
}

func (c DecoderConfig) validate() error {
	if c.MaxWidth < MinDimension || c.MaxWidth > MaxDimension ||
		c.MaxHeight < MinDimension || c.MaxHeight > MaxDimension {
		return fmt.Errorf("%w: max resolution %dx%d out of range [%d, %d]",
			ErrInvalidParam, c.MaxWidth, c.MaxHeight, MinDimension, MaxDimension)
	}
	if c.OutputFormat != PixelFormatNV12 {
		return fmt.Errorf("%w: unsupported output format %s",
			ErrInvalidParam, c.OutputFormat)
	}
	return nil
}
