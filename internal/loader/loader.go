package loader

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/podhmo/typenode"
)

// Config defines how packages are located and loaded.
type Config struct {
	Dir       string   // working directory for pattern resolution; "" means the current directory
	BuildTags []string // passed as -tags
	Env       []string // extra environment entries, appended to os.Environ()
	Tests     bool     // include test variants of packages

	// Fset is the file set used for parsing files. A new one is created when nil.
	Fset *token.FileSet
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Load loads the packages matching patterns, parsed and type-checked.
// Packages are returned sorted by import path.
func Load(ctx context.Context, cfg Config, patterns ...string) ([]*typenode.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	fset := cfg.Fset
	if fset == nil {
		fset = token.NewFileSet()
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     cfg.Dir,
		Fset:    fset,
		Tests:   cfg.Tests,
	}
	if len(cfg.Env) > 0 {
		pcfg.Env = append(os.Environ(), cfg.Env...)
	}
	if len(cfg.BuildTags) > 0 {
		pcfg.BuildFlags = []string{"-tags", strings.Join(cfg.BuildTags, ",")}
	}

	slog.DebugContext(ctx, "Load: start", "dir", cfg.Dir, "patterns", patterns)
	loaded, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v from %q: %w", patterns, cfg.Dir, err)
	}
	if len(loaded) == 0 {
		return nil, &PackageNotFoundError{Path: strings.Join(patterns, " ")}
	}
	slices.SortFunc(loaded, func(a, b *packages.Package) int {
		return cmp.Compare(a.ID, b.ID)
	})

	pkgs := make([]*typenode.Package, 0, len(loaded))
	for _, lp := range loaded {
		pkg, err := convert(ctx, fset, lp)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	slog.DebugContext(ctx, "Load: end", "count", len(pkgs))
	return pkgs, nil
}

// LoadDir loads the single package in cfg.Dir (or the current directory).
func LoadDir(ctx context.Context, cfg Config) (*typenode.Package, error) {
	pkgs, err := Load(ctx, cfg, ".")
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 1 {
		slog.WarnContext(ctx, "Multiple packages found for directory, using the first one.", "dir", cfg.Dir, "count", len(pkgs))
	}
	return pkgs[0], nil
}

func convert(ctx context.Context, fset *token.FileSet, lp *packages.Package) (*typenode.Package, error) {
	var parseErrs, typeErrs []error
	for _, e := range lp.Errors {
		switch e.Kind {
		case packages.ListError:
			return nil, &PackageNotFoundError{Path: cmp.Or(lp.PkgPath, lp.ID), Err: e}
		case packages.ParseError:
			parseErrs = append(parseErrs, e)
		default:
			typeErrs = append(typeErrs, e)
		}
	}
	if len(parseErrs) > 0 {
		return nil, &ParseError{Path: cmp.Or(lp.PkgPath, lp.ID), Err: parseErrs[0]}
	}
	if lp.Types == nil || len(lp.Syntax) == 0 {
		if len(typeErrs) > 0 {
			return nil, &TypeCheckError{Path: lp.PkgPath, Errors: typeErrs}
		}
		return nil, &PackageNotFoundError{Path: cmp.Or(lp.PkgPath, lp.ID)}
	}
	if len(typeErrs) > 0 {
		slog.WarnContext(ctx, "package has type errors", "package", lp.PkgPath, "count", len(typeErrs), "first", typeErrs[0])
	}

	pkg := typenode.NewCheckedPackage(fset, lp.PkgPath, lp.Syntax, lp.Types, lp.TypesInfo, newImporter(fset, lp.Types))
	pkg.TypeErrors = typeErrs
	return pkg, nil
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// newImporter serves the imports of pkg first and falls back to
// type-checking from source for anything else.
func newImporter(fset *token.FileSet, pkg *types.Package) types.Importer {
	fallback := importer.ForCompiler(fset, "source", nil)
	return importerFunc(func(path string) (*types.Package, error) {
		if pkg != nil {
			for _, imp := range pkg.Imports() {
				if imp.Path() == path {
					return imp, nil
				}
			}
		}
		return fallback.Import(path)
	})
}

// LoadFile parses the given Go source file and returns its AST.
// Comments are always kept.
func LoadFile(fset *token.FileSet, filename string, mode parser.Mode) (*ast.File, error) {
	slog.Debug("LoadFile: start", "filename", filename)
	file, err := parser.ParseFile(fset, filename, nil, mode|parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	slog.Debug("LoadFile: end", "filename", filename, "package", file.Name.Name)
	return file, nil
}

// LoadSource parses a single file (src may be nil to read filename from
// disk) and type-checks it as a package of its own, importing
// dependencies from source.
func LoadSource(fset *token.FileSet, filename string, src any) (*typenode.Package, error) {
	if fset == nil {
		fset = token.NewFileSet()
	}
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	return typenode.NewPackage(fset, file.Name.Name, []*ast.File{file}, importer.ForCompiler(fset, "source", nil))
}
