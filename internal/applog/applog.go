// Package applog configures the process-wide structured logger used by
// the Supervisor and Dispatcher (SPEC_FULL.md §1a). It never
// writes to the alternate screen — nothing logged here can collide with
// rendered output.
package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger writing to stderr at the given level name
// ("debug", "info", "warn", "error"; unrecognized names fall back to
// "info").
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return l
}
