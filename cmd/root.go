// Package cmd contains all CLI commands for the sheetxml binary.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetxml/cmd/completion"
	cmdconfig "github.com/klytics/sheetxml/cmd/config"
	"github.com/klytics/sheetxml/cmd/generate"
	cmdmapping "github.com/klytics/sheetxml/cmd/mapping"
	cmdshell "github.com/klytics/sheetxml/cmd/shell"
	"github.com/klytics/sheetxml/cmd/version"
	cmdwatch "github.com/klytics/sheetxml/cmd/watch"
	"github.com/klytics/sheetxml/internal/shell"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetxml",
		Short: "Convert spreadsheets to nested XML",
		Long: `sheetxml — declarative spreadsheet-to-XML conversion.

A mapping document describes which spreadsheet column lands where in a
nested XML tree and how repeated rows merge into grouped structures.
sheetxml reads a workbook, instantiates the structure once per row, folds
the rows together, and writes the XML document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(generate.NewCommand())
	rootCmd.AddCommand(cmdmapping.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	shell.DefaultRunner = runForShell

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// runForShell executes a command line from the interactive shell against a
// fresh root command, capturing its output.
func runForShell(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}
