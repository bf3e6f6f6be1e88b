package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// Logger exposes the shared logrus instance (HTTP access log, startup).
func Logger() *logrus.Logger {
	return logger
}

// SetLogger swaps the shared instance, e.g. to capture output in tests.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}

func entry(requestID, module, action string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"module":     strings.ToUpper(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	})
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	entry(requestID, module, action).Info(message)
}

// LogWarn is LogEvent at warning level, for degraded but handled paths.
func LogWarn(requestID, module, action, message string) {
	entry(requestID, module, action).Warn(message)
}

// LogError records a failure with its full error chain. The caller decides what
// (if anything) the client sees.
func LogError(requestID, module, action, message string, err error) {
	e := entry(requestID, module, action)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}
