package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger creates a charmbracelet logger writing to w at level. An
// unknown level falls back to info.
func SetupLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// SetupFileLogger logs to filename, truncating it. The terminal belongs to
// the TUI while it runs, so interactive play logs to a file.
func SetupFileLogger(filename, level string) (*log.Logger, func() error, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := SetupLogger(f, level)
	logger.SetTimeFormat("15:04:05")
	return logger, f.Close, nil
}
