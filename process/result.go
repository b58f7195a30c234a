package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a finished subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process was killed by a signal.
	ExitCode int
	Duration time.Duration
}

// StderrTail returns the last n lines of stderr, trimmed.
func (r *Result) StderrTail(n int) string {
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
