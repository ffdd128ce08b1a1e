// Package mapping provides the "sheetxml mapping" CLI commands for managing
// and inspecting mapping documents.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetxml/internal/config"
	"github.com/klytics/sheetxml/internal/formats/xlsx"
	"github.com/klytics/sheetxml/internal/mapping"
)

// NewCommand returns the mapping command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage the mapping document",
		Long:  "Create, validate, and inspect the document that maps spreadsheet columns to XML paths.",
	}

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newShowCommand())

	return cmd
}

func newInitCommand() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default mapping document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "mapping.json"
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists — remove it first to generate the default", path)
			}

			if err := os.WriteFile(path, []byte(mapping.DefaultDocument), 0644); err != nil {
				return fmt.Errorf("could not write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			if sample {
				sheet := &xlsx.Sheet{
					Name: "Sheet1",
					Rows: [][]string{{"first"}, {"second"}},
				}
				if err := xlsx.WriteSheet("sample.xlsx", sheet); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Wrote sample.xlsx")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "Also write a matching sample workbook")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var mappingPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the mapping document",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(mappingPath)
			if err != nil {
				return err
			}

			doc, err := mapping.Load(path)
			if err != nil {
				return err
			}
			idx, err := mapping.NewPathIndex(doc.Template())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			ok := color.New(color.FgGreen)
			ok.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "  root element <%s>, %d mapped column(s), data rows from %d\n",
				doc.RootKey(), len(idx.Columns()), doc.From)
			if _, hasMerge := idx.MergePath(); hasMerge {
				fmt.Fprintln(cmd.OutOrStdout(), "  rows merge on a discriminant column; sort input rows by it")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Mapping document path (default from config)")
	return cmd
}

func newShowCommand() *cobra.Command {
	var mappingPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved column-to-path table",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(mappingPath)
			if err != nil {
				return err
			}

			doc, err := mapping.Load(path)
			if err != nil {
				return err
			}
			idx, err := mapping.NewPathIndex(doc.Template())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				table := make(map[string]string, len(idx.Columns()))
				for col, p := range idx.Columns() {
					table[fmt.Sprintf("%d", col)] = p.String()
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}

			header := color.New(color.Bold, color.FgCyan)
			header.Fprintf(cmd.OutOrStdout(), "Mapping: %s\n", path)

			cols := make([]int, 0, len(idx.Columns()))
			for col := range idx.Columns() {
				cols = append(cols, col)
			}
			sort.Ints(cols)

			mergePath, hasMerge := idx.MergePath()
			for _, col := range cols {
				p, _ := idx.Column(col)
				marker := ""
				if hasMerge && p.String() == mergePath.String() {
					marker = "  (merge discriminant)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  column %-3d → %s%s\n", col, p, marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Mapping document path (default from config)")
	return cmd
}

func resolvePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Mapping, nil
}
