package dependents

import (
	"fmt"

	"github.com/matzehuels/dependents/pkg/errors"
)

// Package is the registry metadata of a resolved package version.
type Package struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Homepage     string `json:"homepage,omitempty"`
	UnpackedSize int64  `json:"unpackedSize"`
}

// Edge is one package declaring a dependency on the target. Range is the
// semver range it declared; dev-dependency edges carry no range.
type Edge struct {
	Name  string
	Range string
}

// Node is a scored dependent. Children holds the node's own dependents when
// the node was expanded during a recursive build.
type Node struct {
	Name      string  `json:"name"`
	Version   string  `json:"version"`
	Downloads int64   `json:"downloads"`
	Traffic   int64   `json:"traffic"`
	Dev       bool    `json:"dev"`
	Children  []*Node `json:"children,omitempty"`
}

// Report is the outcome of a build: the target package and its ranked
// dependents.
type Report struct {
	Package     Package `json:"package"`
	Requested   string  `json:"requested,omitempty"` // version constraint from the input, if any
	Dev         bool    `json:"dev"`
	Accumulated bool    `json:"accumulated"`
	Dependents  []*Node `json:"dependents"`
}

// ResolveStatus classifies the outcome of a registry lookup.
type ResolveStatus int

const (
	// Resolved means the registry returned metadata.
	Resolved ResolveStatus = iota
	// NotFound means the registry has no such package or version.
	NotFound
	// Failed covers transport errors and unexpected responses.
	Failed
)

func (s ResolveStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not found"
	default:
		return "failed"
	}
}

// Resolution is the result of resolving a package. Package is set only when
// Status is Resolved; Err carries the cause otherwise.
type Resolution struct {
	Status  ResolveStatus
	Package *Package
	Err     error
}

// AsError converts an unsuccessful resolution of name into a structured error.
// It returns nil for a resolved package.
func (r Resolution) AsError(name string) error {
	switch r.Status {
	case Resolved:
		return nil
	case NotFound:
		return errors.Wrap(errors.ErrCodePackageNotFound, r.Err, "could not resolve %s", name)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, r.Err, "could not resolve %s", name)
	}
}

// String implements fmt.Stringer for log output.
func (r Resolution) String() string {
	if r.Status == Resolved && r.Package != nil {
		return fmt.Sprintf("%s@%s", r.Package.Name, r.Package.Version)
	}
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Status, r.Err)
	}
	return r.Status.String()
}
