package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rezi"
)

// historyEntry is one past REPL line, rezi-encoded to disk one hex-encoded
// record per line so the file stays append-only and line-delimited while
// the record itself is binary.
type historyEntry struct {
	Line string
}

// loadHistory reads path's rezi-encoded entries, in order, into rl's
// in-memory history (for up-arrow recall), skipping any record that fails
// to decode rather than aborting the whole load.
func loadHistory(rl *readline.Instance, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw, err := hex.DecodeString(line)
		if err != nil {
			continue
		}
		var entry historyEntry
		if _, err := rezi.DecBinary(raw, &entry); err != nil {
			continue
		}
		rl.SaveHistory(entry.Line)
	}
}

// appendHistory rezi-encodes line as a historyEntry and appends it to path
// as one hex-encoded record.
func appendHistory(path, line string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	enc := rezi.EncBinary(historyEntry{Line: line})
	fmt.Fprintln(f, hex.EncodeToString(enc))
}
