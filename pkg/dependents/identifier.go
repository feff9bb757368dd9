package dependents

import "strings"

// Identifier names a package and, optionally, the version it was requested at.
type Identifier struct {
	Name    string
	Version string // empty when no version was requested
}

// ParseIdentifier splits "name" or "name@version" into an Identifier.
//
// Scoped names keep their leading "@": "@babel/core@7.0.0" splits at the last
// "@", and "@babel/core" has no version. Unscoped names split at the first
// "@". Malformed input never fails; it just yields no version.
func ParseIdentifier(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		i := strings.LastIndex(raw, "@")
		if i == 0 {
			return Identifier{Name: raw}
		}
		return Identifier{Name: raw[:i], Version: raw[i+1:]}
	}
	name, version, _ := strings.Cut(raw, "@")
	return Identifier{Name: name, Version: version}
}

// Constrained reports whether a specific version was requested.
func (id Identifier) Constrained() bool { return id.Version != "" }

// String formats the identifier back to "name" or "name@version".
func (id Identifier) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}
