package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/dependents"
	pkgio "github.com/matzehuels/dependents/pkg/io"
	"github.com/matzehuels/dependents/pkg/render"
)

// formatCommand creates the command that re-renders a saved report.
func (c *CLI) formatCommand() *cobra.Command {
	var (
		format  string
		number  int
		exclude string
	)

	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Render a saved report without fetching",
		Long: `Render a report written with --file in any output format.

The saved report holds every dependent that survived --exclude, so passing
the --number used when it was created reproduces the original table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			report, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded report", "file", args[0], "nodes", dependents.Count(report.Dependents))
			opts := render.Options{Number: number, Exclude: dependents.ParseExclude(exclude)}
			return render.Render(cmd.OutOrStdout(), f, report, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatMarkdown, "output format: md, ci, json, dot, svg")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "rows shown per level, 0 for all")
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "comma-separated name substrings to drop")

	return cmd
}
