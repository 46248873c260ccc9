package mjpeg

// libraryVersion follows the native wrapper's versioning.
const libraryVersion = "1.0.0"

// Version returns the library version string.
func Version() string {
	return libraryVersion
}
