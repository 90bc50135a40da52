package rostercheck

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/mergington/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger writing to stdout and, when
// logFile is set, to that file as well. The returned closer releases the file.
func SetupLogging(logFile, format string) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithOutput(out), logger.WithFormat(format)); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return closer, nil
}

// SplitActivities parses a comma separated -activities flag value.
func SplitActivities(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ShowHelp prints usage information for the roster check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Mergington Roster Check
=======================

Signs synthetic students up for activities concurrently, repeats each signup
to confirm duplicates are rejected, verifies every roster, then unregisters
everyone it added and verifies they are gone.

Usage:
  go run ./cmd/roster-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -students int
        Number of synthetic students (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -activities string
        Comma separated activity names (default: every listed activity)
  -domain string
        Email domain for synthetic students (default "rostercheck.mergington.edu")
  -timeout duration
        HTTP request timeout (default 10s)
  -keep
        Leave synthetic students on their rosters
  -log string
        Also write logs to this file
  -log-format string
        text or json (default "text")
  -verbose
        Log every failed request
  -help
        Show this help message

Examples:
  # Check every activity with defaults
  go run ./cmd/roster-check

  # Hammer one activity
  go run ./cmd/roster-check -activities "Chess Club" -students 1000 -workers 32
`)
}
