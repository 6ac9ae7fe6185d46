package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "refresh":
		return runRefresh(args[1:])
	case "health":
		return runHealth(args[1:])
	case "history":
		return runHistory(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "translategate CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  translategate <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve    Start the validating translation gateway")
	fmt.Fprintln(os.Stderr, "  refresh  Fetch the upstream language/domain whitelist once and report it")
	fmt.Fprintln(os.Stderr, "  health   Verify upstream reachability (and the database when configured)")
	fmt.Fprintln(os.Stderr, "  history  Show recent whitelist refresh attempts from the database")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"translategate <command> -h\" for command-specific flags.")
}
