// Package util hosts small process-wide helpers shared by the binaries.
package util

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a stdout logger at the given level, falling back to info.
func NewLogger(level string) zerolog.Logger {
	return NewLoggerTo(os.Stdout, level, "")
}

// NewLoggerTo writes to out and, when file is set, also to a rotating log file.
func NewLoggerTo(out io.Writer, level, file string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	w := out
	if file != "" {
		w = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14,
		})
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
