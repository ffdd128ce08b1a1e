// Package generate provides the "sheetxml generate" CLI command, the main
// conversion entry point.
package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetxml/internal/config"
	"github.com/klytics/sheetxml/internal/pipeline"
)

// NewCommand creates the "generate" command.
func NewCommand() *cobra.Command {
	var (
		mappingPath string
		sheetName   string
		indent      int
	)

	cmd := &cobra.Command{
		Use:   "generate <input.xlsx> [output.xml]",
		Short: "Convert a workbook into an XML document",
		Long: `Read a workbook, apply the mapping document, and write the resulting
XML. With no output path the XML is written to stdout.

Examples:
  sheetxml generate data.xlsx out.xml
  sheetxml generate data.xlsx out.xml --mapping billing.json
  sheetxml generate data.xlsx --sheet Invoices`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if mappingPath == "" {
				mappingPath = cfg.Mapping
			}
			if !cmd.Flags().Changed("indent") {
				indent = cfg.Output.Indent
			}

			input := args[0]
			if !strings.HasSuffix(strings.ToLower(input), ".xlsx") {
				return fmt.Errorf("expected an .xlsx file, got %q — use 'sheetxml generate <file.xlsx>'", input)
			}

			opts := pipeline.Options{
				Input:   input,
				Mapping: mappingPath,
				Sheet:   sheetName,
				Indent:  indent,
			}
			if len(args) == 2 {
				opts.Output = args[1]
			}

			result, err := pipeline.Run(opts)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if opts.Output == "" {
				fmt.Fprint(cmd.OutOrStdout(), result.XML)
				return nil
			}

			ok := color.New(color.FgGreen)
			ok.Fprintf(cmd.OutOrStdout(), "Generated: %s → %s\n", result.Input, result.Output)
			fmt.Fprintf(cmd.OutOrStdout(), "  sheet %q, %d row(s) used, %d skipped\n",
				result.Sheet, result.Stats.RowsUsed, result.Stats.RowsSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Mapping document path (default from config)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Read the named sheet (default: first sheet)")
	cmd.Flags().IntVar(&indent, "indent", 2, "Spaces per nesting level, 0 for compact output")

	return cmd
}
