package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/packet"
	"github.com/mel2oo/go-peel/packet/session"
)

// runCommand dissects a single input (a file, or stdin if no file is
// given) against the default packet graph and prints the resulting
// layers.
func runCommand(args []string) int {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	maxDepth := fs.Int("max-depth", peel.DefaultMaxDepth, "maximum number of successful parser invocations per traversal")
	logLevel := fs.String("log-level", "off", "engine log level: off, error, warn, info, debug, trace")
	innermostFirst := fs.Bool("innermost-first", false, "list the deepest matched layer first")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src := os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "peel run: %v\n", err)
			return 1
		}
		defer f.Close()
		src = f
	}

	input, err := readPooledInput(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "peel run: %v\n", err)
		return 1
	}

	g := packet.DefaultGraph()
	state := session.New()
	driver := peel.NewDriver(g, peel.WithMaxDepth(*maxDepth), peel.WithLogLevel(peel.ParseLogLevel(*logLevel)))
	report := driver.Traverse(input, nil, state)

	printReport(os.Stdout, report, *innermostFirst)

	if report.Status == peel.Aborted {
		return 1
	}
	return 0
}
