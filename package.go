package typenode

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
)

// Package is a parsed and type-checked Go package whose files may be edited
// through the helpers in this package.
//
// Types and Info describe the package as of the last type check. AST edits
// (AddField, AddMethod, ...) are visible to AST-based queries at once; call
// Recheck before asking type-based questions about the edited code.
type Package struct {
	Fset     *token.FileSet
	Path     string // import path
	Name     string
	Files    []*ast.File
	Types    *types.Package
	Info     *types.Info
	Importer types.Importer

	// TypeErrors holds the soft errors reported by the last type check.
	TypeErrors []error
}

// NewPackage type-checks files and returns the package.
// Type errors do not fail the call; they are kept in TypeErrors and the
// partially checked information stays usable.
func NewPackage(fset *token.FileSet, path string, files []*ast.File, imp types.Importer) (*Package, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("package %q has no files", path)
	}
	p := &Package{
		Fset:     fset,
		Path:     path,
		Name:     files[0].Name.Name,
		Files:    files,
		Importer: imp,
	}
	if err := p.Recheck(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewCheckedPackage wraps a package that was already type-checked elsewhere
// (e.g. by golang.org/x/tools/go/packages).
func NewCheckedPackage(fset *token.FileSet, path string, files []*ast.File, pkg *types.Package, info *types.Info, imp types.Importer) *Package {
	p := &Package{
		Fset:     fset,
		Path:     path,
		Files:    files,
		Types:    pkg,
		Info:     info,
		Importer: imp,
	}
	switch {
	case pkg != nil:
		p.Name = pkg.Name()
	case len(files) > 0:
		p.Name = files[0].Name.Name
	}
	return p
}

func newInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

// Recheck re-runs type checking over the current files.
// It only fails when no package object could be produced at all.
func (p *Package) Recheck() error {
	var typeErrors []error
	conf := types.Config{
		Importer: p.Importer,
		Error: func(err error) {
			typeErrors = append(typeErrors, err)
		},
	}
	info := newInfo()
	pkg, err := conf.Check(p.Path, p.Fset, p.Files, info)
	if pkg == nil {
		return fmt.Errorf("type checking %s: %w", p.Path, err)
	}
	if len(typeErrors) > 0 {
		slog.Debug("type check reported errors", "package", p.Path, "count", len(typeErrors), "first", typeErrors[0])
	}
	p.Types = pkg
	p.Info = info
	p.TypeErrors = typeErrors
	return nil
}

// Err joins the soft type errors of the last check, or returns nil.
func (p *Package) Err() error {
	return errors.Join(p.TypeErrors...)
}

// TypeNodes returns every package-level named type declaration, in file order.
func (p *Package) TypeNodes() []*TypeNode {
	var nodes []*TypeNode
	for _, file := range p.Files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				nodes = append(nodes, &TypeNode{Name: ts.Name.Name, Spec: ts, Decl: gen, File: file, Pkg: p})
			}
		}
	}
	return nodes
}

// Lookup finds the package-level type declaration called name.
func (p *Package) Lookup(name string) (*TypeNode, error) {
	for _, n := range p.TypeNodes() {
		if n.Name == name {
			return n, nil
		}
	}
	return nil, &NotFoundError{Kind: "type", Name: name, Package: p.Path}
}

// FileOf returns the file containing pos, or nil.
func (p *Package) FileOf(pos token.Pos) *ast.File {
	if !pos.IsValid() {
		return nil
	}
	for _, f := range p.Files {
		if f.FileStart <= pos && pos <= f.FileEnd {
			return f
		}
	}
	return nil
}

// Filename returns the name of file as recorded in the package's FileSet.
func (p *Package) Filename(file *ast.File) string {
	if file == nil || p.Fset == nil {
		return ""
	}
	return p.Fset.Position(file.Package).Filename
}

// qualifier renders package-qualified names relative to p, using the import
// names of file where possible.
func (p *Package) qualifier(file *ast.File) types.Qualifier {
	return func(other *types.Package) string {
		if other == nil || other.Path() == p.Path {
			return ""
		}
		if name := importName(file, other.Path()); name != "" {
			return name
		}
		return other.Name()
	}
}
