// Command selnarrate walks a Markdown document the way a screen reader
// does and prints what would be spoken for each step.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"Path to configuration file (TOML or YAML)" type:"path"`
	Locale   string `help:"Narration locale, overrides the config file"`
	LogLevel string `name:"log-level" help:"Log level: debug, info, warn, error"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Speak   SpeakCmd   `cmd:"" help:"Narrate a sequence of steps over a document"`
	Script  ScriptCmd  `cmd:"" help:"Run a Lua navigation script over a document"`
	Repl    ReplCmd    `cmd:"" help:"Read steps from stdin, one per line"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// VersionCmd prints build information.
type VersionCmd struct{}

// Run prints the version.
func (c *VersionCmd) Run() error {
	fmt.Printf("selnarrate %s (commit %s, built %s)\n", version, commit, date)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("selnarrate"),
		kong.Description("Screen-reader style selection narration for Markdown documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
