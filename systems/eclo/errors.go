package eclo

import (
	"fmt"

	"github.com/go-home-io/lightmgr/plugins/bus"
)

// ErrDuplicateSubscription defines repeated class and group registration.
type ErrDuplicateSubscription struct {
	Class bus.MessageClass
	Group int32
}

// Error formats output.
func (e *ErrDuplicateSubscription) Error() string {
	return fmt.Sprintf("%s subscription for the group %d already exists", e.Class.String(), e.Group)
}

// ErrNoLight defines event node without light.
type ErrNoLight struct {
}

// Error formats output.
func (*ErrNoLight) Error() string {
	return "light is required"
}

// ErrNodeClosed defines operation on a closed node.
type ErrNodeClosed struct {
}

// Error formats output.
func (*ErrNodeClosed) Error() string {
	return "event node is closed"
}
