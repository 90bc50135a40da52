package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/mergington/internal/rostercheck"
)

// Default configuration constants.
const (
	defaultStudents   = 200
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		students   = flag.Int("students", defaultStudents, "Number of synthetic students")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		activities = flag.String("activities", "", "Comma separated activity names (default: all)")
		domain     = flag.String("domain", "", "Email domain for synthetic students")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		keep       = flag.Bool("keep", false, "Leave synthetic students on their rosters")
		logFile    = flag.String("log", "", "Also write logs to this file")
		logFormat  = flag.String("log-format", "text", "Log format: text or json")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rostercheck.ShowHelp()
		return
	}

	closer, err := rostercheck.SetupLogging(*logFile, *logFormat)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &rostercheck.Config{
		BaseURL:    *baseURL,
		Students:   *students,
		Workers:    *workers,
		Timeout:    *timeout,
		Activities: rostercheck.SplitActivities(*activities),
		Domain:     *domain,
		KeepRoster: *keep,
		Verbose:    *verbose,
	}

	if _, err := rostercheck.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Roster check failed: " + err.Error() + "\n")
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
