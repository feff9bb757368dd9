package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/errors"
)

// ReadJSON decodes a report written by [WriteJSON].
//
// The input must be a JSON object with a "package" object and a
// "dependents" array:
//
//	{
//	  "package": {"name": "left-pad", "version": "1.3.0", "unpackedSize": 1200},
//	  "dependents": [{"name": "a", "version": "^1.0.0", "downloads": 10, "traffic": 12000}]
//	}
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, the
// package has no name, a node has no name or negative counts, or the file
// declares a newer format version than this build understands. Missing
// "children" arrays are treated as empty.
func ReadJSON(r io.Reader) (*dependents.Report, error) {
	doc := document{Report: &dependents.Report{}}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode report")
	}
	if doc.Format > FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "report format %d is newer than supported (%d)", doc.Format, FormatVersion)
	}
	if doc.Package.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "report has no package name")
	}
	if err := validate(doc.Dependents, "dependents"); err != nil {
		return nil, err
	}
	return doc.Report, nil
}

func validate(nodes []*dependents.Node, path string) error {
	for i, n := range nodes {
		at := fmt.Sprintf("%s[%d]", path, i)
		if n == nil || n.Name == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "%s: node has no name", at)
		}
		if n.Downloads < 0 || n.Traffic < 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s (%s): negative counts", at, n.Name)
		}
		if err := validate(n.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

// ImportJSON reads a report file at path.
//
// The error wraps the underlying cause with the file path for context: a
// missing file is FILE_NOT_FOUND, anything [ReadJSON] rejects is
// INVALID_FORMAT.
func ImportJSON(path string) (*dependents.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
