package mjpeg

import "testing"

func TestNV12Size(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"vga", 640, 480, 460800},
		{"min", 16, 16, 384},
		{"max", 4096, 4096, 25165824},
		{"hd", 1920, 1080, 3110400},
		{"zero width", 0, 480, 0},
		{"zero height", 640, 0, 0},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NV12Size(tt.width, tt.height); got != tt.want {
				t.Errorf("NV12Size(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestNV12Size_Formula(t *testing.T) {
	// One full-resolution luma plane plus a half-resolution interleaved
	// chroma plane: w*h*3/2 across the whole valid range.
	for _, w := range []int{16, 32, 320, 1280, 4096} {
		for _, h := range []int{16, 240, 720, 4096} {
			if got, want := NV12Size(w, h), w*h*3/2; got != want {
				t.Fatalf("NV12Size(%d, %d) = %d, want %d", w, h, got, want)
			}
		}
	}
}

func TestPixelFormat_String(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
	}{
		{PixelFormatNV12, "NV12"},
		{PixelFormatI420, "I420"},
		{PixelFormat(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("PixelFormat.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelFormat_PlaneCount(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   int
	}{
		{PixelFormatNV12, 2},
		{PixelFormatI420, 3},
		{PixelFormat(99), 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.PlaneCount(); got != tt.want {
				t.Errorf("PixelFormat.PlaneCount() = %v, want %v", got, tt.want)
			}
		})
	}
}
