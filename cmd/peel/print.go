package main

import (
	"fmt"
	"io"

	"github.com/dekarrin/rosed"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/slices"
)

// printReport renders a TraversalReport as a layer-by-layer table followed
// by a one-line status summary. When innermostFirst is set, the layer table
// lists the most recently matched (deepest) layer first.
func printReport(w io.Writer, report peel.TraversalReport, innermostFirst bool) {
	result := report.Result
	if innermostFirst {
		result = slices.Reverse(result)
	}

	data := [][]string{{"#", "Layer", "Summary"}}
	for i, v := range result {
		data = append(data, []string{fmt.Sprintf("%d", i), fmt.Sprintf("%T", v), v.String()})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	table := rosed.Edit("").InsertTableOpts(0, data, 100, tableOpts).String()
	fmt.Fprintln(w, table)

	switch report.Status {
	case peel.Completed:
		fmt.Fprintf(w, "status: %s, %d byte(s) left over\n", report.Status, len(report.LeftInput))
	case peel.IncompleteStatus:
		if n, ok := report.Needed.Get(); ok {
			fmt.Fprintf(w, "status: %s, needs %d more byte(s)\n", report.Status, n)
		} else {
			fmt.Fprintf(w, "status: %s, needs more bytes (count unknown)\n", report.Status)
		}
	case peel.Aborted:
		fmt.Fprintf(w, "status: %s, cause: %s, error: %v\n", report.Status, report.AbortCause, report.Err)
	}
}
