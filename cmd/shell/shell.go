// Package shell provides the "sheetxml shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	shellpkg "github.com/klytics/sheetxml/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd     string
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive sheetxml shell",
		Long: `Start an interactive REPL with persistent state and tab completion.

A session-wide default mapping document can be set once with
'set mapping <path>' instead of passing --mapping to every command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := shellpkg.NewSession()
			if err != nil {
				return err
			}
			if mappingPath != "" {
				session.DefaultMapping = mappingPath
			}
			if evalCmd != "" {
				output, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Print(output)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Default mapping document for the session")
	return cmd
}
