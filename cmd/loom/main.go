package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╔═╗╔═╗╔╦╗
  ║  ║ ║║ ║║║║
  ╩═╝╚═╝╚═╝╩ ╩
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "Reactive data binding for Go",
		Long: `Loom is a reactive data-binding engine for Go.

It keeps derived values, dynamic collections and per-row UI instances
in step with their inputs, recomputing only what a change actually
touches. Features include:

  • Lazy cells with dependency-tracked bindings
  • Row models with filter/map/sort/reverse adapters
  • Repeaters that reconcile instances against model changes
  • Windowed instantiation for large collections
  • A live HTTP/WebSocket inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Loom ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
