package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/zygoslabs/zygosdb"
	"github.com/zygoslabs/zygosdb/store"
)

const buildHelp = `zygosdb build <config.toml> [-flags]

Build a database from the datasets described by a configuration file.
The default output path replaces the configuration extension with .zygosdb.

`

func build(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		output  = fset.String("o", "", "output database path")
		verbose = fset.Bool("v", false, "log per-block compression stats")
	)
	fset.Usage = usage(fset, buildHelp)
	fset.Parse(args)

	// Flags may also follow the configuration file argument.
	positional := fset.Args()
	if len(positional) > 0 {
		fset.Parse(positional[1:])
		positional = append(positional[:1:1], fset.Args()...)
	}

	if len(positional) != 1 {
		fset.Usage()
		return fmt.Errorf("expected exactly one configuration file, got %d arguments", len(positional))
	}
	configPath := positional[0]

	outputPath := *output
	if outputPath == "" {
		outputPath = zygosdb.DefaultOutputPath(configPath)
	}

	var opts []store.BuilderOption
	if *verbose {
		opts = append(opts, store.WithLogf(log.Printf))
	}

	if err := zygosdb.Build(ctx, configPath, outputPath, opts...); err != nil {
		return err
	}

	log.Printf("wrote %s", outputPath)

	return nil
}
