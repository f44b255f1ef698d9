package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/packet"
	"github.com/mel2oo/go-peel/packet/session"
)

// replCommand starts an interactive session: each line of input is decoded
// as hex bytes and traversed against the default packet graph, with the
// resulting layers printed immediately. Type "quit" or send EOF to exit.
func replCommand(args []string) int {
	fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
	maxDepth := fs.Int("max-depth", peel.DefaultMaxDepth, "maximum number of successful parser invocations per traversal")
	logLevel := fs.String("log-level", "off", "engine log level: off, error, warn, info, debug, trace")
	innermostFirst := fs.Bool("innermost-first", false, "list the deepest matched layer first")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "peel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "peel repl: %v\n", err)
		return 1
	}
	defer rl.Close()

	historyPath := historyFilePath()
	loadHistory(rl, historyPath)

	g := packet.DefaultGraph()
	driver := peel.NewDriver(g, peel.WithMaxDepth(*maxDepth), peel.WithLogLevel(peel.ParseLogLevel(*logLevel)))

	fmt.Fprintln(rl.Stdout(), "enter hex-encoded bytes to dissect, or \"quit\" to exit")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return 0
			}
			fmt.Fprintf(os.Stderr, "peel repl: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return 0
		}

		input, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			fmt.Fprintf(rl.Stdout(), "not valid hex: %v\n", err)
			continue
		}

		rl.SaveHistory(line)
		appendHistory(historyPath, line)

		state := session.New()
		report := driver.Traverse(input, nil, state)
		printReport(rl.Stdout(), report, *innermostFirst)
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.peel_history"
}
