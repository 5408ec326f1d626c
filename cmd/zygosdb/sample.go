package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zygoslabs/zygosdb/ingest"
)

const sampleHelp = `zygosdb sample <file> [-flags]

Print the first rows of a source file in aligned columns.

`

func sample(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("sample", flag.ExitOnError)
	var (
		numRows  = fset.Int("n", 10, "rows to print")
		skip     = fset.Int("s", 0, "data rows to skip before printing")
		maxWidth = fset.Int("w", 32, "maximum cell width; longer cells are truncated")
	)
	fset.Usage = usage(fset, sampleHelp)
	fset.Parse(args)

	// Flags may also follow the source file argument.
	positional := fset.Args()
	if len(positional) > 0 {
		fset.Parse(positional[1:])
		positional = append(positional[:1:1], fset.Args()...)
	}

	if len(positional) != 1 {
		fset.Usage()
		return fmt.Errorf("expected exactly one source file, got %d arguments", len(positional))
	}

	r, err := ingest.Open(positional[0])
	if err != nil {
		return err
	}
	defer r.Close()

	header, err := r.Header()
	if err != nil {
		return err
	}

	rows := [][]string{clipRow(header, *maxWidth)}
	var fields []string
	skipped := 0
	for len(rows) <= *numRows {
		line, ok, err := r.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		if skipped < *skip {
			skipped++
			continue
		}

		fields = r.Fields(line, fields)
		rows = append(rows, clipRow(fields, *maxWidth))
	}

	widths := make([]int, len(header))
	for _, cells := range rows {
		for i, cell := range cells {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	for _, cells := range rows {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if i < len(widths) && i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
		}
		fmt.Println(sb.String())
	}

	return nil
}

func clipRow(cells []string, maxWidth int) []string {
	if maxWidth < 2 {
		maxWidth = 2
	}

	out := make([]string, len(cells))
	for i, cell := range cells {
		if len(cell) > maxWidth {
			cell = cell[:maxWidth-1] + "…"
		}
		out[i] = cell
	}

	return out
}
