// Package logger provides loggers used by every system.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/sirupsen/logrus"
)

// Console logger on top of logrus.
type consoleLogger struct {
	logger *logrus.Logger
}

// ConstructConsoleLogger has data required for a new console logger.
type ConstructConsoleLogger struct {
	Level   string `default:"info"`
	Output  io.Writer
	NoColor bool
}

// NewConsoleLogger constructs a new console logger.
func NewConsoleLogger(ctor *ConstructConsoleLogger) common.ILoggerProvider {
	out := ctor.Output
	if nil == out {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(ParseLevel(ctor.Level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.StampMilli,
		DisableColors:   ctor.NoColor,
	})

	return &consoleLogger{
		logger: l,
	}
}

// ParseLevel converts level name into logrus level.
// Unknown names fall back to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "dbg":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error", "err":
		return logrus.ErrorLevel
	}

	return logrus.InfoLevel
}

// Debug prints debug level message.
func (p *consoleLogger) Debug(msg string, fields ...string) {
	p.logger.WithFields(withFields(fields...)).Debug(msg)
}

// Info prints info level message.
func (p *consoleLogger) Info(msg string, fields ...string) {
	p.logger.WithFields(withFields(fields...)).Info(msg)
}

// Warn prints warning level message.
func (p *consoleLogger) Warn(msg string, fields ...string) {
	p.logger.WithFields(withFields(fields...)).Warn(msg)
}

// Error prints error level message.
func (p *consoleLogger) Error(msg string, err error, fields ...string) {
	p.logger.WithFields(withFields(fields...)).WithError(err).Error(msg)
}

// Fatal prints fatal level message and exits.
func (p *consoleLogger) Fatal(msg string, err error, fields ...string) {
	p.logger.WithFields(withFields(fields...)).WithError(err).Fatal(msg)
}

// Flush isn't needed for a console logger.
func (p *consoleLogger) Flush() {
}

// Helper method to add generic fields to the output.
func withFields(fields ...string) logrus.Fields {
	fLen := len(fields)
	result := make(logrus.Fields, fLen/2)
	for ii := 0; ii < fLen; ii += 2 {
		if ii+1 >= fLen {
			break
		}

		result[fields[ii]] = fields[ii+1]
	}

	return result
}
