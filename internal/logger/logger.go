// Package logger builds the console loggers used by plagiscan.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Params contains configuration for creating a console logger.
type Params struct {
	Debug  bool
	Quiet  bool      // only warnings and errors; ignored when Debug is set
	Output io.Writer // defaults to os.Stderr
}

// New creates a console logger with timestamps.
func New(params Params) *log.Logger {
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	switch {
	case params.Debug:
		level = log.DebugLevel
	case params.Quiet:
		level = log.WarnLevel
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
