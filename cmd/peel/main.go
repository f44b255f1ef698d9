/*
Peel dissects raw bytes against a graph of protocol parsers.

Usage:

	peel run [FILE]
	peel repl
	peel serve [flags]

"run" dissects a single input (a file, or stdin if no file is given) and
prints the resulting layers. "repl" starts an interactive session where
each line of hex-encoded bytes is dissected as it is entered. "serve"
starts an HTTP server exposing the same dissection as POST /traverse.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", r))
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "run":
		code = runCommand(os.Args[2:])
	case "repl":
		code = replCommand(os.Args[2:])
	case "serve":
		code = serveCommand(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		code = 0
	default:
		fmt.Fprintf(os.Stderr, "peel: unknown subcommand %q\n", os.Args[1])
		usage()
		code = 2
	}

	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: peel run [FILE] | peel repl | peel serve [flags]")
}
