package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kbukum/aligner/alignment"
)

// NormalizeCmd prints the tokens the aligner compares for a text.
type NormalizeCmd struct {
	Text []string `arg:"" help:"Text to normalize. Words are joined with spaces."`
	JSON bool     `help:"Print a JSON array instead of one token per line."`
}

func (c *NormalizeCmd) Run(_ *Globals) error {
	tokens := alignment.Normalize(strings.Join(c.Text, " "))
	if c.JSON {
		if tokens == nil {
			tokens = []string{}
		}
		return json.NewEncoder(os.Stdout).Encode(tokens)
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	return nil
}
