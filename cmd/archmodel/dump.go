package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/david-basis/archmodel/sysml"
)

// dump prints the raw element graph, ids and all. Useful when the JSON view
// hides a structural problem.
func dump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	tokens := fs.Bool("tokens", false, "Dump the token sequence instead of the model")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archmodel dump <document> [options]

Parse a document and dump the raw element graph for debugging.

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

	if *tokens {
		spew.Dump(sysml.Tokenize(string(src)))
		return nil
	}

	m, err := sysml.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	spew.Dump(m)
	return nil
}
