package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/errors"
	pkgio "github.com/matzehuels/dependents/pkg/io"
)

// Output formats.
const (
	FormatCI       = "ci"
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
)

// Formats lists every supported format name.
var Formats = []string{FormatCI, FormatMarkdown, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat normalizes and validates a format name. An empty name selects
// FormatCI.
func ParseFormat(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatCI, nil
	}
	if s == "markdown" {
		return FormatMarkdown, nil
	}
	if !slices.Contains(Formats, s) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (available: %s)", s, strings.Join(Formats, ", "))
	}
	return s, nil
}

// Render writes r to w in the given format.
func Render(w io.Writer, format string, r *dependents.Report, opts Options) error {
	switch format {
	case FormatCI:
		return Table(w, r, opts)
	case FormatMarkdown:
		return Markdown(w, r, opts)
	case FormatJSON:
		return JSON(w, r, opts)
	case FormatDOT:
		_, err := io.WriteString(w, DOT(r, opts))
		return err
	case FormatSVG:
		svg, err := SVG(DOT(r, opts))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return fmt.Errorf("unsupported format %q", format)
}

// JSON writes the pruned report in the report file format.
func JSON(w io.Writer, r *dependents.Report, opts Options) error {
	pruned := *r
	pruned.Dependents = Prune(r.Dependents, opts)
	return pkgio.WriteJSON(&pruned, w)
}

// List writes one dependent name per line, skipping excluded names and
// stopping after opts.Number names.
func List(w io.Writer, edges []dependents.Edge, opts Options) error {
	n := 0
	for _, e := range edges {
		if dependents.Excluded(e.Name, opts.Exclude) {
			continue
		}
		if opts.Number > 0 && n >= opts.Number {
			break
		}
		if _, err := fmt.Fprintln(w, e.Name); err != nil {
			return err
		}
		n++
	}
	return nil
}

// Title describes the report's package in one line.
func Title(r *dependents.Report) string {
	kind := "dependents"
	if r.Dev {
		kind = "dev dependents"
	}
	title := fmt.Sprintf("%s of %s@%s", kind, r.Package.Name, r.Package.Version)
	if r.Requested != "" && r.Requested != r.Package.Version {
		title += fmt.Sprintf(" (requested %s)", r.Requested)
	}
	if r.Accumulated {
		title += ", accumulated"
	}
	return title
}
