// Package utils contains helpers shared by every system.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeNow returns epoch UTC.
func TimeNow() int64 {
	return time.Now().UTC().Unix()
}

// ClampInt32 limits value to [min, max] range.
func ClampInt32(value int32, min int32, max int32) int32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Itoa32 formats signed value for logging.
func Itoa32(value int32) string {
	return strconv.FormatInt(int64(value), 10)
}

// Utoa32 formats unsigned value for logging.
func Utoa32(value uint32) string {
	return strconv.FormatUint(uint64(value), 10)
}

// NormalizeName validates that final node description is correct.
func NormalizeName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	replacer := strings.NewReplacer("%", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		";", "_",
		".", "_",
		"$", "_",
		" ", "_")
	return replacer.Replace(raw)
}

// NodeKey returns monitor key for the node within the group.
func NodeKey(group int32, node uint16) string {
	return fmt.Sprintf("%d.%d", group, node)
}
