package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/david-basis/archmodel/model"
	"github.com/david-basis/archmodel/sysml"
)

func tree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	showIDs := fs.Bool("ids", false, "Show element ids next to names")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archmodel tree <document> [options]

Parse a document and print its element tree in declaration order.

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

	if m.Root == "" {
		fmt.Println("(no package declared)")
		return nil
	}
	root, _ := m.Element(m.Root)
	printTree(m, root, 0, *showIDs)
	return nil
}

func printTree(m *model.Model, el *model.Element, depth int, showIDs bool) {
	label := el.Name
	if label == "" {
		label = fmt.Sprintf("%s -> %s", el.Source, el.Target)
	}
	line := fmt.Sprintf("%s%s [%s]", strings.Repeat("  ", depth), label, el.Kind)
	if showIDs {
		line += " (" + el.ID + ")"
	}
	fmt.Println(line)

	for _, child := range m.Children(el.ID) {
		printTree(m, child, depth+1, showIDs)
	}
}
