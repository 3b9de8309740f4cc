package fader

// ErrClosed defines operation on a stopped fade controller.
type ErrClosed struct {
}

// Error formats output.
func (*ErrClosed) Error() string {
	return "fade controller is closed"
}

// ErrUnknownEngine defines unsupported fade engine request.
type ErrUnknownEngine struct {
}

// Error formats output.
func (*ErrUnknownEngine) Error() string {
	return "unknown fade engine"
}
