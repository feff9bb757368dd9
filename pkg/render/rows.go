package render

import (
	"strconv"

	"github.com/matzehuels/dependents/pkg/dependents"
)

// Options controls which nodes are shown.
type Options struct {
	Number  int      // rows per level; <= 0 shows all
	Exclude []string // name substrings to hide
}

// Row is one display line of a report.
type Row struct {
	Rank      string // dotted position in the tree, e.g. "3" or "3.1"
	Depth     int
	Name      string
	Version   string
	Downloads int64
	Traffic   int64
	Dev       bool
}

// Rows flattens nodes into display rows in tree order.
func Rows(nodes []*dependents.Node, opts Options) []Row {
	var out []Row
	appendRows(&out, nodes, opts, "", 0)
	return out
}

func appendRows(out *[]Row, nodes []*dependents.Node, opts Options, prefix string, depth int) {
	for i, n := range visible(nodes, opts) {
		rank := prefix + strconv.Itoa(i+1)
		*out = append(*out, Row{
			Rank:      rank,
			Depth:     depth,
			Name:      n.Name,
			Version:   n.Version,
			Downloads: n.Downloads,
			Traffic:   n.Traffic,
			Dev:       n.Dev,
		})
		appendRows(out, n.Children, opts, rank+".", depth+1)
	}
}

func visible(nodes []*dependents.Node, opts Options) []*dependents.Node {
	return dependents.Top(dependents.Exclude(nodes, opts.Exclude), opts.Number)
}

// Prune returns a copy of nodes restricted to what Rows would show.
func Prune(nodes []*dependents.Node, opts Options) []*dependents.Node {
	shown := visible(nodes, opts)
	out := make([]*dependents.Node, len(shown))
	for i, n := range shown {
		cp := *n
		cp.Children = nil
		if len(n.Children) > 0 {
			cp.Children = Prune(n.Children, opts)
		}
		out[i] = &cp
	}
	return out
}
