// Package csvlog provides the structured, field-tagged logger shared by
// the lexer, parser and printer.
package csvlog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger logrus.FieldLogger = logrus.StandardLogger()
)

// SetLogger replaces the package-level logger used by csvcore. Tests and
// embedding applications can supply their own logrus.FieldLogger (or a
// logrus.Entry) to capture or silence csvcore's log output.
func SetLogger(l logrus.FieldLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// For returns a logger scoped to component, tagged with session for
// correlating log lines from one Parser or Printer instance.
func For(component string, session string) logrus.FieldLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.WithFields(logrus.Fields{
		"component": component,
		"session":   session,
	})
}
