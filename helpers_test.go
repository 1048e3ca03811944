package typenode_test

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/podhmo/typenode"
	"github.com/podhmo/typenode/internal/loader"
	"github.com/podhmo/typenode/internal/utils/astutils"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeForContains compacts all whitespace so snippets can be matched
// regardless of how the printer broke lines.
func normalizeForContains(snippet string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(snippet, " "))
}

func loadPackage(t *testing.T, src string) *typenode.Package {
	t.Helper()
	pkg, err := loader.LoadSource(token.NewFileSet(), "src.go", src)
	require.NoError(t, err)
	require.Empty(t, pkg.TypeErrors, "test source should type-check")
	return pkg
}

func lookup(t *testing.T, pkg *typenode.Package, name string) *typenode.TypeNode {
	t.Helper()
	n, err := pkg.Lookup(name)
	require.NoError(t, err)
	return n
}

func render(t *testing.T, pkg *typenode.Package) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, format.Node(&buf, pkg.Fset, pkg.Files[0]))
	return buf.String()
}

// parseFunc parses a single function declaration with no positions attached.
func parseFunc(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "func.go", "package p\n"+src, 0)
	require.NoError(t, err)
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	require.True(t, ok, "source must start with a func declaration")
	astutils.ResetPositions(fn)
	return fn
}

// parseField parses `name type` (or just `type` for embedded fields).
func parseField(t *testing.T, src string) *ast.Field {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "field.go", "package p\ntype _ struct{\n"+src+"\n}", 0)
	require.NoError(t, err)
	field := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType).Fields.List[0]
	astutils.ResetPositions(field)
	return field
}
