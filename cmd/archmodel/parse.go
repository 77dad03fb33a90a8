package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/david-basis/archmodel/sysml"
)

func parse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write model JSON to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archmodel parse <document> [options]

Parse a SysML-subset document and print the resulting model as JSON.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("document file required")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	m, err := sysml.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	data, err := m.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Model written to %s\n", *outputFile)
		return nil
	}
	fmt.Println(string(data))
	return nil
}
