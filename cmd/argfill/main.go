// Package main is the entry point for the argfill list reflow tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/argfill/internal/app"
	reflowhandler "github.com/dshills/argfill/internal/dispatcher/handlers/reflow"
	"github.com/dshills/argfill/internal/engine/buffer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type cliOptions struct {
	app    app.Options
	action string
	offset int64
	lang   string
	write  bool

	listLanguages bool
	showVersion   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("argfill %s (%s)\n", version, commit)
		return 0
	}

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if opts.listLanguages {
		for _, name := range application.Registry().Names() {
			fmt.Println(name)
		}
		return 0
	}

	action := "reflow." + opts.action
	path := flag.Arg(0)

	if path == "" || path == "-" {
		return runStdin(application, opts, action)
	}

	out, res, err := application.ProcessFile(path, buffer.ByteOffset(opts.offset), action, opts.lang, opts.write)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if res.IsError() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Error)
		return 1
	}
	if !opts.write {
		fmt.Print(out)
	}
	return 0
}

func runStdin(application *app.App, opts cliOptions, action string) int {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading stdin: %v\n", err)
		return 1
	}
	lang, err := application.LanguageFor(opts.lang, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	out, res := application.Process(string(data), lang, buffer.ByteOffset(opts.offset), action)
	if res.IsError() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Error)
		return 1
	}
	fmt.Print(out)
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.app.PluginDir, "plugins", "", "Directory of Lua plugin scripts")
	flag.StringVar(&opts.app.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.action, "action", "dwim", "Action: dwim, toSingleLine, toMultiLine, fill")
	flag.StringVar(&opts.action, "a", "dwim", "Action (shorthand)")
	flag.Int64Var(&opts.offset, "offset", 0, "Cursor byte offset within the input")
	flag.Int64Var(&opts.offset, "o", 0, "Cursor byte offset (shorthand)")
	flag.StringVar(&opts.lang, "lang", "", "Language name (default: detect from file extension)")
	flag.StringVar(&opts.lang, "l", "", "Language name (shorthand)")
	flag.BoolVar(&opts.write, "write", false, "Rewrite the file in place instead of printing")
	flag.BoolVar(&opts.write, "w", false, "Rewrite in place (shorthand)")
	flag.BoolVar(&opts.listLanguages, "list-languages", false, "List registered languages and exit")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "argfill - bracket-aware list reflow\n\n")
		fmt.Fprintf(os.Stderr, "Usage: argfill [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  argfill -offset 120 main.go              Toggle the list at offset 120\n")
		fmt.Fprintf(os.Stderr, "  argfill -a toMultiLine -o 57 -w main.go  Expand in place\n")
		fmt.Fprintf(os.Stderr, "  argfill -a toSingleLine -o 4 -l go -     Collapse from stdin\n")
	}
	flag.Parse()

	validateAction(opts.action)
	return opts
}

func validateAction(action string) {
	switch "reflow." + action {
	case reflowhandler.ActionDwim, reflowhandler.ActionToSingleLine,
		reflowhandler.ActionToMultiLine, reflowhandler.ActionFill:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q\n", action)
		flag.Usage()
		os.Exit(2)
	}
}
