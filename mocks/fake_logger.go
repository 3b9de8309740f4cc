//+build !release

package mocks

import (
	"sync"
)

// Fake logger
type fakeLogger struct {
	sync.Mutex
	callback func(string)
}

func (p *fakeLogger) call(msg string) {
	if p.callback == nil {
		return
	}

	p.Lock()
	defer p.Unlock()
	p.callback(msg)
}

// Prints debug level message.
func (p *fakeLogger) Debug(msg string, fields ...string) {
	p.call(msg)
}

// Prints info level message.
func (p *fakeLogger) Info(msg string, fields ...string) {
	p.call(msg)
}

// Prints warning level message.
func (p *fakeLogger) Warn(msg string, fields ...string) {
	p.call(msg)
}

// Prints error level message.
func (p *fakeLogger) Error(msg string, err error, fields ...string) {
	p.call(msg)
}

// Prints fatal level message.
func (p *fakeLogger) Fatal(msg string, err error, fields ...string) {
	p.call(msg)
}

// Flush does nothing.
func (p *fakeLogger) Flush() {
}

// FakeNewLogger creates a fake logger provider.
func FakeNewLogger(callback func(string)) *fakeLogger {
	return &fakeLogger{
		callback: callback,
	}
}
