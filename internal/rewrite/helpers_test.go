package rewrite_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

func parseField(t *testing.T, src string) *ast.Field {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "field.go", "package p\ntype _ struct{\n"+src+"\n}", 0)
	require.NoError(t, err)
	field := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType).Fields.List[0]
	astutils.ResetPositions(field)
	return field
}
