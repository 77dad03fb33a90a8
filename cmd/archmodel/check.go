package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/david-basis/archmodel/sysml"
)

type checkResult struct {
	file string
	err  error
}

// check parses every named document. Each file gets its own Parse call, and
// therefore its own cursor and id space, so running them concurrently is
// safe.
func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Log each file as it is checked")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archmodel check <document>... [options]

Parse each document and report the first malformed construct in any of them.
Exits non-zero when at least one document fails to parse.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("at least one document required")
	}

	log := zerolog.Nop()
	if *verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	results := make([]checkResult, fs.NArg())
	var wg sync.WaitGroup
	for i, file := range fs.Args() {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			results[i] = checkResult{file: file, err: checkFile(file)}
			log.Info().Str("file", file).Err(results[i].err).Msg("checked")
		}(i, file)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].file < results[j].file })

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", res.file, res.err)
		} else {
			fmt.Printf("✓ %s\n", res.file)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed to parse", failed, len(results))
	}
	return nil
}

func checkFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if _, err := sysml.Parse(string(src)); err != nil {
		return err
	}
	return nil
}
