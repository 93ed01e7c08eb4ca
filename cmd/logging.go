package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// newLogger returns a logger writing to out. verbosity is the count of -v
// flags: warnings only, then info, debug and trace.
func newLogger(verbosity int, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&prefixed.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case verbosity <= 0:
		log.SetLevel(logrus.WarnLevel)
	case verbosity == 1:
		log.SetLevel(logrus.InfoLevel)
	case verbosity == 2:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.TraceLevel)
	}
	return log
}
