package dependents

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Registry resolves package names to registry metadata.
type Registry interface {
	// Resolve looks up name at version. An empty version means "latest".
	Resolve(ctx context.Context, name, version string) Resolution
}

// Graph answers dependency and download queries.
type Graph interface {
	// Dependents lists the packages depending on name. With dev set, the
	// dev-dependency edges are returned instead.
	Dependents(ctx context.Context, name string, dev bool) ([]Edge, error)
	// Downloads returns download counts keyed by name. Names the service
	// does not know are absent from the result.
	Downloads(ctx context.Context, names []string) (map[string]int64, error)
}

// Options configures a Builder.
type Options struct {
	Dev        bool        // follow dev-dependency edges
	Depth      int         // recursion depth; 0 disables recursion
	Width      int         // nodes expanded per level; 0 disables recursion
	Exclude    []string    // name substrings skipped when picking nodes to expand
	Accumulate bool        // roll subtree downloads into the top-level nodes
	Logger     *log.Logger // defaults to a discarding logger
}

// WithDefaults returns a copy of o with zero values replaced.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.Depth = max(o.Depth, 0)
	o.Width = max(o.Width, 0)
	return o
}

// Recursive reports whether the options request subtree expansion.
func (o Options) Recursive() bool { return o.Depth > 0 && o.Width > 0 }

// Builder assembles dependent reports from a Registry and a Graph.
type Builder struct {
	registry Registry
	graph    Graph
	opts     Options
}

// NewBuilder creates a Builder.
func NewBuilder(registry Registry, graph Graph, opts Options) *Builder {
	return &Builder{registry: registry, graph: graph, opts: opts.WithDefaults()}
}

// Build resolves id and ranks its dependents, expanding and accumulating as
// configured. It fails when id cannot be resolved or when any dependent
// query fails.
func (b *Builder) Build(ctx context.Context, id Identifier) (*Report, error) {
	res := b.registry.Resolve(ctx, id.Name, id.Version)
	if err := res.AsError(id.String()); err != nil {
		return nil, err
	}
	pkg := res.Package
	b.opts.Logger.Debug("resolved root", "package", pkg.Name, "version", pkg.Version, "unpackedSize", pkg.UnpackedSize)

	nodes, err := b.level(ctx, pkg, id.Constrained(), b.opts.Depth)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Package:    *pkg,
		Requested:  id.Version,
		Dev:        b.opts.Dev,
		Dependents: nodes,
	}
	if b.opts.Accumulate {
		AccumulateAll(report.Dependents, pkg.UnpackedSize)
		report.Accumulated = true
	}
	return report, nil
}

// Edges resolves id and returns its (version-filtered) dependent edges
// without scoring them.
func (b *Builder) Edges(ctx context.Context, id Identifier) ([]Edge, error) {
	res := b.registry.Resolve(ctx, id.Name, id.Version)
	if err := res.AsError(id.String()); err != nil {
		return nil, err
	}
	return b.edges(ctx, res.Package, id.Constrained())
}

func (b *Builder) edges(ctx context.Context, pkg *Package, constrained bool) ([]Edge, error) {
	edges, err := b.graph.Dependents(ctx, pkg.Name, b.opts.Dev)
	if err != nil {
		return nil, err
	}
	if constrained {
		kept := FilterByVersion(edges, pkg.Version)
		b.opts.Logger.Debug("filtered by version", "package", pkg.Name, "version", pkg.Version, "kept", len(kept), "total", len(edges))
		edges = kept
	}
	return edges, nil
}

// level scores the dependents of pkg and expands the top of the list while
// depth remains.
func (b *Builder) level(ctx context.Context, pkg *Package, constrained bool, depth int) ([]*Node, error) {
	edges, err := b.edges(ctx, pkg, constrained)
	if err != nil {
		return nil, err
	}
	nodes := b.score(ctx, edges, pkg.UnpackedSize)
	SortByDownloads(nodes)

	if b.opts.Width > 0 && depth > 0 {
		if err := b.expand(ctx, nodes, constrained, depth-1); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (b *Builder) score(ctx context.Context, edges []Edge, unpackedSize int64) []*Node {
	names := make([]string, 0, len(edges))
	for _, e := range edges {
		names = append(names, e.Name)
	}
	slices.Sort(names)
	names = slices.Compact(names)

	downloads := map[string]int64{}
	if len(names) > 0 {
		d, err := b.graph.Downloads(ctx, names)
		if err != nil {
			b.opts.Logger.Warn("download counts unavailable, scoring as zero", "packages", len(names), "err", err)
		} else {
			downloads = d
		}
	}

	nodes := make([]*Node, len(edges))
	for i, e := range edges {
		n := downloads[e.Name]
		nodes[i] = &Node{
			Name:      e.Name,
			Version:   e.Range,
			Downloads: n,
			Traffic:   n * unpackedSize,
			Dev:       b.opts.Dev,
		}
	}
	return nodes
}

// expand builds the children of the first Width non-excluded nodes
// concurrently. Each goroutine writes only to its own node.
func (b *Builder) expand(ctx context.Context, nodes []*Node, constrained bool, depth int) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range Top(Exclude(nodes, b.opts.Exclude), b.opts.Width) {
		g.Go(func() error {
			children, err := b.subtree(ctx, n.Name, constrained, depth)
			if err != nil {
				return err
			}
			n.Children = children
			return nil
		})
	}
	return g.Wait()
}

// subtree resolves name at its latest version and builds its dependents. A
// package that cannot be resolved contributes no children.
func (b *Builder) subtree(ctx context.Context, name string, constrained bool, depth int) ([]*Node, error) {
	res := b.registry.Resolve(ctx, name, "")
	if res.Status != Resolved {
		b.opts.Logger.Warn("skipping subtree", "package", name, "reason", res)
		return nil, nil
	}
	return b.level(ctx, res.Package, constrained, depth)
}
