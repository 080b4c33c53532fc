package sqle

import (
	"io"

	"github.com/sirupsen/logrus"
)

const (
	// SpecLogField is the log field holding the text of a type
	// specification.
	SpecLogField = "spec"
	// JoinKindLogField is the log field holding the kind of a join.
	JoinKindLogField = "joinKind"
	// TypeCacheSizeLogField is the log field holding the capacity of the
	// type cache.
	TypeCacheSizeLogField = "typeCacheSize"
)

// SetupLogging configures the standard logrus logger. Debug messages are
// only written when debug is set. A nil writer keeps the current output.
func SetupLogging(out io.Writer, debug bool) {
	if out != nil {
		logrus.SetOutput(out)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
