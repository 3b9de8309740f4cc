package driver

import "fmt"

// ErrInvalidChannel defines channel index out of peripheral range.
type ErrInvalidChannel struct {
	Channel uint32
}

// Error formats output.
func (e *ErrInvalidChannel) Error() string {
	return fmt.Sprintf("invalid channel %d", e.Channel)
}

// ErrDriverRejected defines hardware call returned non-success.
type ErrDriverRejected struct {
	Channel uint32
	Reason  string
}

// Error formats output.
func (e *ErrDriverRejected) Error() string {
	return fmt.Sprintf("channel %d rejected request: %s", e.Channel, e.Reason)
}

// ErrUnknownPin defines pin which is not known to the driver.
type ErrUnknownPin struct {
	Pin string
}

// Error formats output.
func (e *ErrUnknownPin) Error() string {
	return fmt.Sprintf("unknown pin %s", e.Pin)
}

// ErrNoFadeSupport defines driver without hardware fade capability.
type ErrNoFadeSupport struct {
}

// Error formats output.
func (*ErrNoFadeSupport) Error() string {
	return "driver has no hardware fade support"
}
