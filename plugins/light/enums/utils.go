package enums

import (
	"fmt"
	"strings"
)

// ErrUnknownValue defines unknown enum name error.
type ErrUnknownValue struct {
	Enum  string
	Value string
}

// Error formats output.
func (e *ErrUnknownValue) Error() string {
	return fmt.Sprintf("%s is not a valid %s", e.Value, e.Enum)
}

// Case-insensitive lookup of the name.
func indexOf(names []string, s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	for ii, v := range names {
		if v == s {
			return ii
		}
	}

	return -1
}
