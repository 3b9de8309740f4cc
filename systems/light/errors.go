package light

import "fmt"

// ErrDuplicateMember defines composite member id collision.
type ErrDuplicateMember struct {
	ID uint8
}

// Error formats output.
func (e *ErrDuplicateMember) Error() string {
	return fmt.Sprintf("member %d already exists", e.ID)
}

// ErrKindMismatch defines composite member of a wrong kind.
type ErrKindMismatch struct {
	Expected string
	Actual   string
}

// Error formats output.
func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("expected %s light, got %s", e.Expected, e.Actual)
}

// ErrMaxValueMismatch defines equal or phase-shifted member with a different resolution.
type ErrMaxValueMismatch struct {
	Expected int32
	Actual   int32
}

// Error formats output.
func (e *ErrMaxValueMismatch) Error() string {
	return fmt.Sprintf("expected max value %d, got %d", e.Expected, e.Actual)
}

// ErrForeignLight defines light which can't be driven by composite.
type ErrForeignLight struct {
}

// Error formats output.
func (*ErrForeignLight) Error() string {
	return "light is not supported as a composite member"
}
