package bus

// ErrCorruptedMessage defines a corrupted message error.
type ErrCorruptedMessage struct {
}

// Error formats output.
func (*ErrCorruptedMessage) Error() string {
	return "failed to unmarshal bus message"
}

// ErrOldMessage defines an old message error.
type ErrOldMessage struct {
}

// Error formats output.
func (*ErrOldMessage) Error() string {
	return "message is too old"
}

// ErrQueueFull defines publish timeout.
type ErrQueueFull struct {
}

// Error formats output.
func (*ErrQueueFull) Error() string {
	return "bus queue is full"
}

// ErrBusClosed defines operation on a closed bus.
type ErrBusClosed struct {
}

// Error formats output.
func (*ErrBusClosed) Error() string {
	return "bus is closed"
}

// ErrNilHandler defines subscription without handler.
type ErrNilHandler struct {
}

// Error formats output.
func (*ErrNilHandler) Error() string {
	return "handler is required"
}
