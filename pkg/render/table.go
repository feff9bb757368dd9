package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/dependents/pkg/dependents"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleNested = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1).Align(lipgloss.Right)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

var headers = []string{"#", "Package", "Range", "Downloads", "Traffic"}

// Table writes r as a colored terminal table.
func Table(w io.Writer, r *dependents.Report, opts Options) error {
	rows := Rows(r.Dependents, opts)
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = cellsFor(row, true)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0 || col >= 3:
				return styleNumber
			case row < len(rows) && rows[row].Depth > 0:
				return styleNested
			}
			return styleCell
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", styleTitle.Render(Title(r)), t.Render())
	return err
}

// Markdown writes r as a GitHub-flavored markdown table.
func Markdown(w io.Writer, r *dependents.Report, opts Options) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", mdEscape(Title(r)))
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|---:|---|---|---:|---:|\n")
	for _, row := range Rows(r.Dependents, opts) {
		c := cellsFor(row, false)
		c[1] = fmt.Sprintf("%s[%s](https://www.npmjs.com/package/%s)", strings.Repeat("&nbsp;&nbsp;", row.Depth), mdEscape(row.Name), row.Name)
		if row.Dev {
			c[1] += " (dev)"
		}
		if row.Version != "" {
			c[2] = "`" + mdEscape(row.Version) + "`"
		}
		b.WriteString("| " + strings.Join(c, " | ") + " |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cellsFor(row Row, indent bool) []string {
	name := row.Name
	if indent && row.Depth > 0 {
		name = strings.Repeat("  ", row.Depth-1) + "└ " + name
	}
	if row.Dev {
		name += " (dev)"
	}
	return []string{
		row.Rank,
		name,
		row.Version,
		humanize.Comma(row.Downloads),
		FormatBytes(row.Traffic),
	}
}

// FormatBytes renders a byte count with SI units ("1.2 MB").
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(n))
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
