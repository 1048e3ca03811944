package typenode

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

// AddInterfaces makes *n implement each of ifaces by adding a stub method
// (whose body panics) for every interface method n does not already have,
// either declared or promoted. Imports needed by the stub signatures are
// added to n's file. It returns the names of the added methods.
func AddInterfaces(n *TypeNode, ifaces ...types.Type) ([]string, error) {
	named, ok := types.Unalias(n.Type()).(*types.Named)
	if !ok || n.IsInterface() {
		return nil, fmt.Errorf("add interfaces to %s: %w", n.Name, ErrInvalidReceiver)
	}
	ptr := types.NewPointer(named)

	var added []string
	for _, t := range ifaces {
		if t == nil {
			return added, fmt.Errorf("add interfaces to %s: nil type: %w", n.Name, ErrNotInterface)
		}
		iface, ok := t.Underlying().(*types.Interface)
		if !ok {
			return added, fmt.Errorf("add interfaces to %s: %s: %w", n.Name, types.TypeString(t, nil), ErrNotInterface)
		}
		mset := types.NewMethodSet(ptr)
		for i := 0; i < iface.NumMethods(); i++ {
			m := iface.Method(i)
			if !m.Exported() && m.Pkg() != nil && m.Pkg().Path() != n.Pkg.Path {
				slog.Warn("cannot implement unexported method of another package", "type", n.Name, "method", m.Name(), "package", m.Pkg().Path())
				continue
			}
			if mset.Lookup(m.Pkg(), m.Name()) != nil || HasMethod(n, m.Name(), nil) {
				continue
			}
			if HasField(n, m.Name()) {
				return added, fmt.Errorf("add interfaces to %s: method %s collides with a field: %w", n.Name, m.Name(), ErrInvalidReceiver)
			}
			fn := stubFor(n, m)
			if err := AddMethod(n, fn); err != nil {
				return added, err
			}
			added = append(added, m.Name())
		}
	}
	return added, nil
}

// AddInterfacesByName resolves each name with ResolveType and calls AddInterfaces.
func AddInterfacesByName(n *TypeNode, names ...string) ([]string, error) {
	ifaces := make([]types.Type, 0, len(names))
	for _, name := range names {
		t := ResolveType(n, name)
		if t == nil {
			return nil, &NotFoundError{Kind: "interface", Name: name, Package: n.Pkg.Path}
		}
		ifaces = append(ifaces, t)
	}
	return AddInterfaces(n, ifaces...)
}

func stubFor(n *TypeNode, m *types.Func) *ast.FuncDecl {
	qf := func(other *types.Package) string {
		if other == nil || other.Path() == n.Pkg.Path {
			return ""
		}
		if name := importName(n.File, other.Path()); name != "" {
			return name
		}
		astutil.AddImport(n.Pkg.Fset, n.File, other.Path())
		return other.Name()
	}
	sig := m.Type().(*types.Signature)
	return &ast.FuncDecl{
		Name: ast.NewIdent(m.Name()),
		Type: astutils.FuncTypeOf(sig, qf),
		Body: &ast.BlockStmt{List: []ast.Stmt{
			&ast.ExprStmt{X: &ast.CallExpr{
				Fun:  ast.NewIdent("panic"),
				Args: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote("not implemented")}},
			}},
		}},
	}
}
