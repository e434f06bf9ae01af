package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger behind the small surface the rest of
// the program uses: leveled methods taking a message and an optional
// map of properties.
type Logger struct {
	l *logrus.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns a singleton logger instance
func GetLogger() *Logger {
	once.Do(func() {
		instance = setupLogger()
	})
	return instance
}

// L is shorthand for GetLogger.
func L() *Logger {
	return GetLogger()
}

func setupLogger() *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "02-01-06 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return &Logger{l: l}
}

func (l *Logger) entry(props []map[string]interface{}) *logrus.Entry {
	if len(props) == 0 || props[0] == nil {
		return logrus.NewEntry(l.l)
	}
	return l.l.WithFields(logrus.Fields(props[0]))
}

func (l *Logger) Info(msg string, props ...map[string]interface{}) {
	l.entry(props).Info(msg)
}

func (l *Logger) Error(msg string, props ...map[string]interface{}) {
	l.entry(props).Error(msg)
}

func (l *Logger) Debug(msg string, props ...map[string]interface{}) {
	l.entry(props).Debug(msg)
}

// Fatal logs the message and exits the process with status 1.
func (l *Logger) Fatal(msg string, props ...map[string]interface{}) {
	l.entry(props).Fatal(msg)
}

// EnableDebug enables debug logging
func (l *Logger) EnableDebug() {
	l.l.SetLevel(logrus.DebugLevel)
}

// DisableDebug disables debug logging
func (l *Logger) DisableDebug() {
	l.l.SetLevel(logrus.InfoLevel)
}

// SetOutput redirects log output. Tests use this to capture entries.
func (l *Logger) SetOutput(w io.Writer) {
	l.l.SetOutput(w)
}
