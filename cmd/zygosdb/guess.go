package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/zygoslabs/zygosdb/format"
	"github.com/zygoslabs/zygosdb/ingest"
)

const guessHelp = `zygosdb guess-column-types <file> [-flags]

Sample a source file and classify each column as integer, float,
volatile-string, or hashtable-string.

`

func guessColumnTypes(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("guess-column-types", flag.ExitOnError)
	var (
		columnNames = fset.String("column-names", "", "comma-separated columns to classify (default: all)")
		threshold   = fset.Float64("volatile-threshold-fraction", 0.5, "distinct-value fraction above which a string column is volatile")
		sampleSize  = fset.Int("min-sample-size", 100, "minimum rows to sample")
		policyName  = fset.String("missing-value-policy", "omit-row", "omit-row, throw, or replace-with-empty-string")
	)
	fset.Usage = usage(fset, guessHelp)
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

	policy, err := parsePolicy(*policyName)
	if err != nil {
		return err
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

	columns := make(map[int]format.MissingValuePolicy)
	names := make(map[int]string)
	if *columnNames == "" {
		for i, name := range header {
			columns[i] = policy
			names[i] = name
		}
	} else {
		for _, want := range strings.Split(*columnNames, ",") {
			idx := -1
			for i, name := range header {
				if name == want {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("column %q not found in header", want)
			}
			columns[idx] = policy
			names[idx] = want
		}
	}

	types, err := ingest.GuessColumnTypes(r, columns, *threshold, *sampleSize)
	if err != nil {
		return err
	}

	for i := 0; i < len(header); i++ {
		if t, ok := types[i]; ok {
			fmt.Printf("%s: %s\n", names[i], t)
		}
	}

	return nil
}

func parsePolicy(name string) (format.MissingValuePolicy, error) {
	switch name {
	case "omit-row":
		return format.OmitRow, nil
	case "throw":
		return format.Throw, nil
	case "replace-with-empty-string":
		return format.ReplaceWithEmptyString, nil
	default:
		return 0, fmt.Errorf("unknown missing value policy %q", name)
	}
}
