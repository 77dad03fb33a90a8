package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse":
		if err := parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "tree":
		if err := tree(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := check(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "dump":
		if err := dump(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("archmodel version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`archmodel - SysML-subset model parsing and query tool

Usage:
  archmodel <command> [options]

Commands:
  parse      Parse a document and print the model as JSON
  tree       Parse a document and print the element tree
  check      Parse many documents and report the first error in each
  dump       Parse a document and dump the raw element graph
  serve      Run the HTTP model service for the viewer UI
  help       Show this help message
  version    Show version information

Examples:
  # Inspect a model
  archmodel parse vehicle.sysml
  archmodel tree vehicle.sysml

  # Validate a directory of documents
  archmodel check models/*.sysml

  # Serve the viewer API
  archmodel serve --config archmodel.hcl

For command-specific help, run:
  archmodel <command> --help`)
}
