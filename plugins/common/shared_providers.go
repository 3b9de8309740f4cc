// Package common contains shared contracts available for every light manager system.
package common

// ILoggerProvider defines logger provider which will be passed to every system.
// Fields are key-value pairs, keys are expected to be one of Log*Token constants.
type ILoggerProvider interface {
	Debug(msg string, fields ...string)
	Info(msg string, fields ...string)
	Warn(msg string, fields ...string)
	Error(msg string, err error, fields ...string)
	Fatal(msg string, err error, fields ...string)
	Flush()
}
