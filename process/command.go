// Package process runs external tools, such as a local forced-alignment
// CLI, as cancellable subprocesses.
package process

import (
	"io"
	"os/exec"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is an executable path or a name resolved via PATH.
	Binary string
	Args   []string
	Dir    string
	// Env holds extra KEY=value pairs appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is the wait between SIGTERM and SIGKILL on cancellation.
	// Defaults to 5s.
	GracePeriod time.Duration
}

// LookPath reports whether binary can be executed.
func LookPath(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
