// Package mjpeg wraps a hardware MJPEG codec engine behind two independent
// pipelines: NV12 to MJPEG encoding and MJPEG to NV12 decoding.
//
// The package does not implement JPEG compression itself. It manages the
// session and resource contract around a codec engine: context acquisition,
// the two buffer groups (frame and packet) each session owns, per-call
// buffer validation, running statistics, and ordered teardown.
//
// # Architecture
//
//	Encode: caller NV12 buffer -> Encoder -> engine context -> MJPEG bytes
//	Decode: caller MJPEG bytes -> Decoder -> engine context -> NV12 buffer
//
// Each Encoder or Decoder binds exactly one engine context plus a frame
// buffer group and a packet buffer group. All per-session state is guarded
// by a single exclusive lock, so one session processes at most one unit at
// a time; distinct sessions are fully independent and safe to drive from
// separate goroutines.
//
// # Native Libraries
//
// The hardware backend loads libmjpeg_mpp, a thin primitive-only wrapper
// around the Rockchip MPP SDK, via purego (CGO_ENABLED=0). Set
// MJPEG_MPP_LIB_PATH to the directory containing the library. When the
// library is absent the software passthrough engine is used, which
// preserves the full session contract without performing a real pixel
// transform.
//
// # Build Tags
//
//   - nompp: disable the Rockchip MPP backend
package mjpeg
