package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kbukum/aligner/version"
)

// VersionCmd prints build information.
type VersionCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *VersionCmd) Run(_ *Globals) error {
	info := version.Get()
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Printf("alignctl %s (go %s)\n", info.Short(), info.GoVersion)
	return nil
}
