// Package bus contains control bus definitions.
package bus

import "fmt"

// MessageClass describes enum with known control bus message classes.
type MessageClass uint8

const (
	// ClassCommand describes brightness commands.
	ClassCommand MessageClass = iota
	// ClassService describes echo and state requests.
	ClassService
	// ClassState describes light state broadcasts.
	ClassState
)

var classNames = []string{"command", "service", "state"}

// String returns class name.
func (i MessageClass) String() string {
	if int(i) >= len(classNames) {
		return fmt.Sprintf("MessageClass(%d)", i)
	}

	return classNames[i]
}

// Permission describes node rights on a group.
type Permission uint8

const (
	// PermNone describes inert subscription.
	PermNone Permission = 0
	// PermRead allows applying inbound messages received on the group.
	PermRead Permission = 1 << 0
	// PermWrite allows publishing to the group.
	PermWrite Permission = 1 << 1
	// PermReadWrite allows both.
	PermReadWrite = PermRead | PermWrite
)

// CanRead checks read bit.
func (p Permission) CanRead() bool {
	return p&PermRead != 0
}

// CanWrite checks write bit.
func (p Permission) CanWrite() bool {
	return p&PermWrite != 0
}

// String returns permission name.
func (p Permission) String() string {
	switch p {
	case PermNone:
		return "none"
	case PermRead:
		return "read"
	case PermWrite:
		return "write"
	case PermReadWrite:
		return "read-write"
	}

	return fmt.Sprintf("Permission(%d)", p)
}

const (
	// GroupAny subscribes to every group of the class.
	GroupAny int32 = -1
	// IDAnonymous describes sender without address, accepted by every node.
	IDAnonymous uint16 = 0
	// IDBroadcast describes destination matching every node.
	IDBroadcast uint16 = 0xffff
)
