package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger: JSON lines on out (stdout when
// nil) at the given level. An unknown level falls back to info.
func Init(level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	logrus.Info("Logger initialized")
}
