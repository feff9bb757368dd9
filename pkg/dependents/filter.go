package dependents

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FilterByVersion keeps the edges whose declared range is satisfied by
// version. Wildcard and empty ranges always match; ranges that are not semver
// constraints (git URLs, dist-tags, file paths) never do.
func FilterByVersion(edges []Edge, version string) []Edge {
	v, err := semver.NewVersion(version)
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if satisfies(v, err == nil, e.Range) {
			out = append(out, e)
		}
	}
	return out
}

func satisfies(v *semver.Version, valid bool, rng string) bool {
	rng = strings.TrimSpace(rng)
	switch rng {
	case "", "*", "x", "latest":
		return true
	}
	if !valid {
		return false
	}
	c, err := semver.NewConstraint(rng)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// ParseExclude splits a comma-separated exclude list, dropping blanks.
func ParseExclude(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Excluded reports whether name contains any of patterns (case-sensitive).
func Excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Exclude returns the nodes whose names match none of patterns, in order.
// The input slice is not modified.
func Exclude(nodes []*Node, patterns []string) []*Node {
	if len(patterns) == 0 {
		return nodes
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if !Excluded(n.Name, patterns) {
			out = append(out, n)
		}
	}
	return out
}

// Top returns the first n nodes. n <= 0 means no limit.
func Top(nodes []*Node, n int) []*Node {
	if n <= 0 || n >= len(nodes) {
		return nodes
	}
	return nodes[:n]
}

// SortByDownloads orders nodes by downloads, highest first. Ties keep their
// existing order.
func SortByDownloads(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		switch {
		case a.Downloads > b.Downloads:
			return -1
		case a.Downloads < b.Downloads:
			return 1
		}
		return 0
	})
}
