package out

// Capture is a live audio input producing 8-bit frequency magnitude bins.
// Start may fail when the device is absent or access is denied; callers are
// expected to degrade, not abort.
type Capture interface {
	Start() error
	Bins() []byte
	Stop()
}
