//go:build !linux || nompp

package mjpeg

import "fmt"

// IsMPPAvailable checks if the Rockchip MPP backend is available.
// Always false on this platform or with the nompp build tag.
func IsMPPAvailable() bool {
	return false
}

func newMPPEngine() (Engine, error) {
	return nil, fmt.Errorf("%w: mpp backend not built", ErrInit)
}
