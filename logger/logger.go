/*
Package logger wraps logrus for the whole module.

PURPOSE:
  One structured logger, initialized once from configuration. Packages log
  through WithFields/Info/Warn/Error and never touch logrus directly, so
  format and destination stay a deployment decision.

USAGE:
  logger.Init("info", "text", "stdout")
  logger.WithFields(map[string]interface{}{"date": d}).Info("ranks recomputed")
*/
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Usable before Init with sane defaults.
var Log = logrus.New()

// Init configures level ("debug".."error"), format ("text"|"json") and
// output ("stdout", "stderr", or a file path).
func Init(level, format, output string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	switch output {
	case "", "stdout":
		Log.SetOutput(os.Stdout)
	case "stderr":
		Log.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		Log.SetOutput(file)
	}
	return nil
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return Log.WithFields(fields)
}

func Info(args ...interface{})  { Log.Info(args...) }
func Warn(args ...interface{})  { Log.Warn(args...) }
func Error(args ...interface{}) { Log.Error(args...) }
func Debug(args ...interface{}) { Log.Debug(args...) }

func Infof(format string, args ...interface{})  { Log.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Log.Errorf(format, args...) }
