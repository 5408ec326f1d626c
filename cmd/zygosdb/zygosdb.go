// Command zygosdb builds and inspects ZygosDB database files.
//
// Usage:
//
//	zygosdb build <config.toml> [-o output]
//	zygosdb guess-column-types <file> [flags]
//	zygosdb sample <file> [flags]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
)

type cmd struct {
	fn   func(ctx context.Context, args []string) error
	help string
}

func main() {
	log.SetFlags(0)
	flag.Usage = usageAll
	flag.Parse()

	verbs := map[string]cmd{
		"build":              {fn: build, help: "build a database from a configuration file"},
		"guess-column-types": {fn: guessColumnTypes, help: "classify the columns of a source file"},
		"sample":             {fn: sample, help: "print the first rows of a source file"},
	}

	args := flag.Args()
	if len(args) == 0 {
		usageAll()
		os.Exit(1)
	}

	verb, args := args[0], args[1:]
	if verb == "help" {
		usageAll()
		return
	}

	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", verb)
		usageAll()
		os.Exit(1)
	}

	if err := v.fn(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", verb, err)
		os.Exit(1)
	}
}

func usageAll() {
	fmt.Fprint(os.Stderr, `zygosdb <command> [flags]

Commands:
  build               build a database from a configuration file
  guess-column-types  classify the columns of a source file
  sample              print the first rows of a source file
  help                show this help
`)
}

func usage(fset *flag.FlagSet, help string) func() {
	return func() {
		fmt.Fprint(os.Stderr, help)
		fset.PrintDefaults()
	}
}
