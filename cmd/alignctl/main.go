// Command alignctl aligns transcripts from the command line, inspects the
// normalizer and issues API tokens for the alignment service.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/version"
)

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `env:"LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log level (${enum})."`
	Debug    bool   `env:"DEBUG" help:"Shorthand for --log-level=debug."`
}

// Logger returns a console logger on stderr, keeping stdout for results.
func (g *Globals) Logger() *logger.Logger {
	cfg := logger.Config{Level: g.LogLevel, Format: "console", Output: "stderr"}
	if g.Debug {
		cfg.Level = "debug"
	}
	return logger.New(&cfg, "alignctl")
}

var cli struct {
	Globals

	Align     AlignCmd     `cmd:"" help:"Correct segment timestamps against a word stream."`
	Normalize NormalizeCmd `cmd:"" help:"Print the comparison tokens of a text."`
	Token     TokenCmd     `cmd:"" help:"Issue a bearer token for the alignment service."`
	Version   VersionCmd   `cmd:"" help:"Print build information."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("alignctl"),
		kong.Description("Transcript timestamp alignment tools. Version: ${version}"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Get().Short()},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
