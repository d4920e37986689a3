package terminal

// Backend abstracts platform-specific terminal operations.
// Tests substitute an in-memory backend; the unix backend drives a real tty.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Size returns current dimensions, error when they cannot be determined
	Size() (width, height int, err error)

	// Write writes raw bytes to the terminal output.
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
