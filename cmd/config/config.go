// Package config provides CLI commands for configuration management.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetxml/internal/config"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sheetxml configuration",
		Long:  "View and initialize tool-level settings (default mapping path, output indentation).",
	}

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())

	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := config.Init()
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", config.Path())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.Path())
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mapping:          %s\n", cfg.Mapping)
			fmt.Fprintf(cmd.OutOrStdout(), "output.indent:    %d\n", cfg.Output.Indent)
			fmt.Fprintf(cmd.OutOrStdout(), "output.color:     %t\n", cfg.Output.Color)
			fmt.Fprintf(cmd.OutOrStdout(), "watch.debounce_ms: %d\n", cfg.Watch.DebounceMs)
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		},
	}
}
