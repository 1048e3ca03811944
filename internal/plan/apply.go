package plan

import (
	"cmp"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"strconv"

	"github.com/podhmo/typenode"
	"github.com/podhmo/typenode/internal/utils/astutils"
	"github.com/podhmo/typenode/internal/utils/stringutils"
)

// Entry records the outcome of one edit.
type Entry struct {
	Type    string   `json:"type" yaml:"type"`
	Kind    string   `json:"kind" yaml:"kind"` // "field", "method" or "interface"
	Name    string   `json:"name" yaml:"name"`
	Added   bool     `json:"added" yaml:"added"`
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"` // stubs added for an interface
}

// Report lists the entries of an Apply call in plan order.
type Report struct {
	Package string  `json:"package" yaml:"package"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Added counts the entries that changed the package.
func (r *Report) Added() int {
	n := 0
	for _, e := range r.Entries {
		if e.Added {
			n++
		}
	}
	return n
}

// Apply performs every edit of p on pkg. Members that already exist are
// skipped, so applying the same plan twice changes nothing the second time.
// The first error stops the run; the report then covers the edits made so far.
func Apply(pkg *typenode.Package, p *Plan) (*Report, error) {
	report := &Report{Package: pkg.Path, Entries: []Entry{}}
	for _, tp := range p.Types {
		n, err := pkg.Lookup(tp.Name)
		if err != nil {
			return report, err
		}
		for _, fp := range tp.Fields {
			field, err := fp.Node()
			if err != nil {
				return report, fmt.Errorf("type %s: %w", tp.Name, err)
			}
			added, err := typenode.AddFieldIfNotPresent(n, field)
			if err != nil {
				return report, fmt.Errorf("type %s: field %s: %w", tp.Name, fp.DisplayName(), err)
			}
			report.Entries = append(report.Entries, Entry{Type: tp.Name, Kind: "field", Name: fp.DisplayName(), Added: added})
		}
		for _, mp := range tp.Methods {
			fn, err := mp.Node()
			if err != nil {
				return report, fmt.Errorf("type %s: %w", tp.Name, err)
			}
			added, err := typenode.AddMethodIfNotPresent(n, fn)
			if err != nil {
				return report, fmt.Errorf("type %s: method %s: %w", tp.Name, fn.Name.Name, err)
			}
			report.Entries = append(report.Entries, Entry{Type: tp.Name, Kind: "method", Name: fn.Name.Name, Added: added})
		}
		for _, iface := range tp.Implements {
			methods, err := typenode.AddInterfacesByName(n, iface)
			if err != nil {
				return report, fmt.Errorf("type %s: implements %s: %w", tp.Name, iface, err)
			}
			report.Entries = append(report.Entries, Entry{Type: tp.Name, Kind: "interface", Name: iface, Added: len(methods) > 0, Methods: methods})
		}
	}
	slog.Debug("plan applied", "package", pkg.Path, "entries", len(report.Entries), "added", report.Added())
	return report, nil
}

// DisplayName is the field name, or the type for embedded fields.
func (fp FieldPlan) DisplayName() string {
	if fp.Embedded {
		return fp.Type
	}
	return fp.Name
}

// Node builds the field declaration.
func (fp FieldPlan) Node() (*ast.Field, error) {
	typ, err := parser.ParseExpr(fp.Type)
	if err != nil {
		return nil, fmt.Errorf("field %s: parsing type %q: %w", fp.DisplayName(), fp.Type, err)
	}
	astutils.ResetPositions(typ)
	field := &ast.Field{Type: typ}
	if !fp.Embedded {
		field.Names = []*ast.Ident{ast.NewIdent(fp.Name)}
	}
	if tag := fp.tag(); tag != "" {
		field.Tag = &ast.BasicLit{Kind: token.STRING, Value: "`" + tag + "`"}
	}
	return field, nil
}

func (fp FieldPlan) tag() string {
	if fp.Tag != "" || fp.TagCase == "" || fp.Embedded {
		return fp.Tag
	}
	var value string
	switch fp.TagCase {
	case "snake":
		value = stringutils.ToSnakeCase(fp.Name)
	case "kebab":
		value = stringutils.ToKebabCase(fp.Name)
	default:
		value = stringutils.ToLowerCamel(fp.Name)
	}
	return cmp.Or(fp.TagKey, "json") + ":" + strconv.Quote(value)
}

// Node parses the method source into a declaration without positions.
func (mp MethodPlan) Node() (*ast.FuncDecl, error) {
	f, err := parser.ParseFile(token.NewFileSet(), "method.go", "package p\n"+mp.Source, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing method source: %w", err)
	}
	if len(f.Decls) != 1 {
		return nil, fmt.Errorf("method source must hold exactly one declaration, got %d", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok {
		return nil, fmt.Errorf("method source is not a function declaration")
	}
	astutils.ResetPositions(fn)
	return fn, nil
}
