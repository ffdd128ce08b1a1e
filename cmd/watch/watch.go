// Package watch provides the "sheetxml watch" CLI command for continuous
// regeneration.
package watch

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetxml/internal/config"
	"github.com/klytics/sheetxml/internal/pipeline"
	w "github.com/klytics/sheetxml/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		mappingPath string
		output      string
		sheetName   string
		debounce    int
	)

	cmd := &cobra.Command{
		Use:   "watch <input.xlsx>",
		Short: "Regenerate the XML whenever the workbook or mapping changes",
		Long: `Watch the workbook and its mapping document and rerun the conversion
on every change, debounced. Stop with Ctrl+C.

Example:
  sheetxml watch data.xlsx --output out.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if mappingPath == "" {
				mappingPath = cfg.Mapping
			}
			if debounce == 0 {
				debounce = cfg.Watch.DebounceMs
			}
			if output == "" {
				return fmt.Errorf("--output is required in watch mode — stdout would interleave with log output")
			}

			opts := pipeline.Options{
				Input:   args[0],
				Output:  output,
				Mapping: mappingPath,
				Sheet:   sheetName,
				Indent:  cfg.Output.Indent,
			}

			// Generate once up front so a broken setup fails immediately.
			if _, err := pipeline.Run(opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s → %s\n", opts.Input, opts.Output)

			watcher, err := w.New(w.Config{
				Paths:      []string{opts.Input, opts.Mapping},
				DebounceMs: debounce,
			})
			if err != nil {
				return err
			}
			watcher.Handler = func(path string) error {
				_, err := pipeline.Run(opts)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Mapping document path (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output XML path")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Read the named sheet (default: first sheet)")
	cmd.Flags().IntVar(&debounce, "debounce", 0, "Milliseconds to wait after a change (default from config)")

	return cmd
}
