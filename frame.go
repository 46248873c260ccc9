// Core pixel-format and frame descriptor types.
package mjpeg

// PixelFormat represents raw video pixel formats.
//
// NV12 is the zero value: it is the only format the decoder currently
// produces, so an unset DecoderConfig.OutputFormat means NV12.
type PixelFormat int

const (
	PixelFormatNV12 PixelFormat = iota // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatI420                    // YUV 4:2:0 planar (Y + U + V)
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatI420:
		return "I420"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatNV12:
		return 2 // Y, UV
	case PixelFormatI420:
		return 3 // Y, U, V
	default:
		return 0
	}
}

// NV12Size returns the buffer size in bytes required to hold one NV12
// frame of the given dimensions: a full-resolution Y plane plus a
// half-resolution interleaved UV plane, width*height*3/2 in total.
// Returns 0 if either dimension is 0.
func NV12Size(width, height int) int {
	if width == 0 || height == 0 {
		return 0
	}
	return width * height * 3 / 2
}

// FrameInfo describes a decoded frame.
type FrameInfo struct {
	Width     int         // Actual frame width in pixels
	Height    int         // Actual frame height in pixels
	Format    PixelFormat // Pixel format of the output buffer
	Timestamp uint64      // Frame timestamp assigned by the engine
}
