// Package rewrite turns edited syntax trees back into source files.
package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"log/slog"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/imports"

	"github.com/podhmo/typenode"
)

// Change is the rendered content of one file that differs from what is on disk.
type Change struct {
	Filename string
	Before   []byte
	After    []byte
}

// Render prints file and runs goimports over the result, so imports needed
// by inserted nodes are added and unused ones dropped.
func Render(fset *token.FileSet, filename string, file *ast.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("printing %s: %w", filename, err)
	}
	out, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("processing (goimports) generated code for %s: %w\nOriginal content was:\n%s", filename, err, buf.String())
	}
	return out, nil
}

// Changes renders every file of pkg and returns those whose content differs
// from the file on disk, in package file order.
func Changes(pkg *typenode.Package) ([]Change, error) {
	var changes []Change
	for _, file := range pkg.Files {
		filename := pkg.Filename(file)
		if filename == "" {
			continue
		}
		before, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading original file %s: %w", filename, err)
		}
		after, err := Render(pkg.Fset, filename, file)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(before, after) {
			slog.Debug("file unchanged", "filename", filename)
			continue
		}
		changes = append(changes, Change{Filename: filename, Before: before, After: after})
	}
	return changes, nil
}

// Write stores each change over its file, keeping the file mode.
func Write(changes []Change) error {
	for _, c := range changes {
		mode := os.FileMode(0o644)
		if info, err := os.Stat(c.Filename); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(c.Filename, c.After, mode); err != nil {
			return fmt.Errorf("writing modified content to %s: %w", c.Filename, err)
		}
		slog.Info("file rewritten", "filename", c.Filename)
	}
	return nil
}

// Diff returns a unified diff of the change.
func (c Change) Diff() (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(c.Before)),
		B:        difflib.SplitLines(string(c.After)),
		FromFile: "a/" + c.Filename,
		ToFile:   "b/" + c.Filename,
		Context:  3,
	})
}

// Diff concatenates the diffs of all changes.
func Diff(changes []Change) (string, error) {
	var buf bytes.Buffer
	for _, c := range changes {
		d, err := c.Diff()
		if err != nil {
			return "", fmt.Errorf("diffing %s: %w", c.Filename, err)
		}
		buf.WriteString(d)
	}
	return buf.String(), nil
}
