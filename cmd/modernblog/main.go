package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "setup":
		err = runSetup(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "version":
		fmt.Printf("modernblog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modernblog - A single-tenant blogging platform built with Go, Echo and templ

Usage:
  modernblog <command> [flags] [arguments]

Commands:
  serve                  Start the HTTP server
  setup [-sample]        Create the schema, the admin user and default content
  import [-publish] FILE Import Markdown files with front matter as posts
  version                Print the modernblog version
  help                   Show this help message

Every command accepts -config <file> (YAML, TOML or JSON). Environment
variables prefixed with MODERNBLOG_ override the file, for example
MODERNBLOG_SERVER_SESSION_SECRET or MODERNBLOG_ADMIN_PASSWORD.

Examples:
  modernblog setup -sample
  modernblog serve -config config.yaml
  modernblog import -publish posts/*.md`)
}
