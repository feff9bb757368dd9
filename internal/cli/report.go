package cli

import (
	"context"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/errors"
	pkgio "github.com/matzehuels/dependents/pkg/io"
	"github.com/matzehuels/dependents/pkg/observability"
	"github.com/matzehuels/dependents/pkg/render"
)

// reportOptions holds the flags of the report command.
type reportOptions struct {
	conn       connFlags
	number     int
	file       string
	output     string
	exclude    string
	dev        bool
	list       bool
	depths     int
	recursive  int
	accumulate bool
}

// reportCommand creates the command that builds a dependents report.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "dependents <package[@version]>",
		Short: "Rank the npm packages that depend on a package",
		Long: `Rank the npm packages that depend on a package by their downloads.

With a version (left-pad@1.3.0) only dependents whose declared range is
satisfied by that version are listed. --depths and --recursive expand the
top dependents of every level into a tree; --accumulate rolls those subtree
downloads up into the top-level rows.`,
		Example: `  dependents left-pad -n 20
  dependents @babel/core@7.24.0 -d 2 -r 5 -a -o md
  dependents express -D -e eslint,test -f express.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "missing package name")
			}
			return c.runReport(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.number, "number", "n", 0, "rows shown per level, 0 for all")
	flags.StringVarP(&opts.file, "file", "f", "", "also write the report as JSON to this file")
	flags.StringVarP(&opts.output, "output", "o", render.FormatCI, "output format: ci, md, json, dot, svg")
	flags.StringVarP(&opts.exclude, "exclude", "e", "", "comma-separated name substrings to drop")
	flags.BoolVarP(&opts.dev, "dev", "D", false, "follow dev-dependency edges")
	flags.BoolVarP(&opts.list, "list", "l", false, "print dependent names only")
	flags.IntVarP(&opts.depths, "depths", "d", 0, "recursion depth, 0 for none")
	flags.IntVarP(&opts.recursive, "recursive", "r", 0, "dependents expanded per level")
	flags.BoolVarP(&opts.accumulate, "accumulate", "a", false, "roll subtree downloads into top-level rows")
	opts.conn.register(cmd)

	return cmd
}

func (c *CLI) runReport(ctx context.Context, out io.Writer, raw string, opts reportOptions) error {
	logger := loggerFromContext(ctx)

	if opts.depths < 0 || opts.recursive < 0 || opts.number < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--number, --depths and --recursive must not be negative")
	}
	format, err := render.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	if !c.quiet && (opts.depths > 0) != (opts.recursive > 0) {
		printWarning("--depths and --recursive only expand the tree together; showing a single level")
	}
	cfg, err := opts.conn.resolve()
	if err != nil {
		return err
	}

	id := dependents.ParseIdentifier(raw)
	if id.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "missing package name")
	}
	exclude := dependents.ParseExclude(opts.exclude)
	view := render.Options{Number: opts.number, Exclude: exclude}

	src := newSources(cfg)
	builder := dependents.NewBuilder(src.registry, src.graph, dependents.Options{
		Dev:        opts.dev,
		Depth:      opts.depths,
		Width:      opts.recursive,
		Exclude:    exclude,
		Accumulate: opts.accumulate,
		Logger:     logger,
	})

	if opts.list {
		edges, err := builder.Edges(ctx, id)
		if err != nil {
			return err
		}
		return render.List(out, edges, view)
	}

	report, err := c.buildReport(ctx, builder, id)
	if err != nil {
		return err
	}

	if opts.file != "" {
		saved := *report
		saved.Dependents = render.Prune(report.Dependents, render.Options{Exclude: exclude})
		if err := pkgio.ExportJSON(&saved, opts.file); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write report")
		}
		if !c.quiet {
			printSuccess("Saved report")
			printFile(opts.file)
		}
	}

	return render.Render(out, format, report, view)
}

// buildReport runs the builder behind a spinner and reports timing through
// the observability hooks.
func (c *CLI) buildReport(ctx context.Context, builder *dependents.Builder, id dependents.Identifier) (*dependents.Report, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if !c.quiet {
		spinner = newSpinnerWithContext(ctx, "Fetching dependents of "+id.String()+"...")
		spinner.Start()
	}

	hooks := observability.Report()
	hooks.OnReportStart(ctx, id.String())
	start := time.Now()
	report, err := builder.Build(ctx, id)
	count := 0
	if report != nil {
		count = dependents.Count(report.Dependents)
	}
	hooks.OnReportComplete(ctx, id.String(), count, time.Since(start), err)

	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}

	prog.done("Ranked " + humanize.Comma(int64(count)) + " dependents of " + report.Package.Name + "@" + report.Package.Version)
	return report, nil
}
