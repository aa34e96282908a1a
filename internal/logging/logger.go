// Package logging provides a runtime.Logger backed by logrus for code that runs outside Nakama,
// such as the simulator and tests that want readable output.
package logging

import (
	"io"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/sirupsen/logrus"
)

// Logger adapts a logrus entry to runtime.Logger.
type Logger struct {
	entry *logrus.Entry
}

var _ runtime.Logger = (*Logger)(nil)

// New returns a text logger writing to out at the given level ("debug", "info", ...).
// An unknown level falls back to info.
func New(out io.Writer, level string) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &Logger{entry: logrus.NewEntry(l)}
}

// Wrap adapts an existing logrus logger.
func Wrap(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return &Logger{entry: l.entry.WithField(key, v)}
}

func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.entry.Data))
	for k, v := range l.entry.Data {
		out[k] = v
	}
	return out
}
