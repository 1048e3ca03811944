package typenode

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"slices"

	"github.com/podhmo/typenode/internal/annotation"
	"github.com/podhmo/typenode/internal/utils/astutils"
	"github.com/podhmo/typenode/internal/utils/stringutils"
)

// Method is a method reachable from a type declaration, either declared on
// the type itself (Depth 0) or promoted through embedded fields.
type Method struct {
	Name  string
	Recv  string   // receiver type, e.g. "*User" or "io.Reader"
	Depth int      // 0 for methods declared on the type itself
	Via   []string // embedded field names leading to the method

	Decl *ast.FuncDecl // nil for interface methods and methods outside the package
	Spec *ast.Field    // interface method spec, when declared in an interface literal
	Func *types.Func   // nil without type information
}

// Annotations returns the annotations in the method's doc comment.
func (m *Method) Annotations() []*Annotation {
	switch {
	case m.Decl != nil:
		return annotation.Parse(m.Decl.Doc)
	case m.Spec != nil:
		return annotation.Parse(m.Spec.Doc)
	}
	return nil
}

// Pos returns the position of the method name, or token.NoPos.
func (m *Method) Pos() token.Pos {
	switch {
	case m.Decl != nil:
		return m.Decl.Name.Pos()
	case m.Spec != nil && len(m.Spec.Names) > 0:
		return m.Spec.Names[0].Pos()
	case m.Func != nil:
		return m.Func.Pos()
	}
	return token.NoPos
}

// declaredMethods collects the func declarations whose receiver is n or *n.
func declaredMethods(n *TypeNode) []*ast.FuncDecl {
	var methods []*ast.FuncDecl
	for _, file := range n.files() {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if name, _ := astutils.BaseTypeName(fn.Recv.List[0].Type); name == n.Name {
				methods = append(methods, fn)
			}
		}
	}
	return methods
}

// interfaceMethods returns the explicit method specs of an interface declaration.
func interfaceMethods(n *TypeNode) []*ast.Field {
	it, ok := n.InterfaceType()
	if !ok || it.Methods == nil {
		return nil
	}
	var specs []*ast.Field
	for _, f := range it.Methods.List {
		if _, ok := f.Type.(*ast.FuncType); ok && len(f.Names) > 0 {
			specs = append(specs, f)
		}
	}
	return specs
}

// HasMethod reports whether n declares a method called name. When params is
// non-nil the parameter types must match as well.
func HasMethod(n *TypeNode, name string, params *ast.FieldList) bool {
	matches := func(ft *ast.FuncType) bool {
		return params == nil || slices.Equal(astutils.FieldListTypeNames(ft.Params), astutils.FieldListTypeNames(params))
	}
	for _, spec := range interfaceMethods(n) {
		if spec.Names[0].Name == name && matches(spec.Type.(*ast.FuncType)) {
			return true
		}
	}
	for _, fn := range declaredMethods(n) {
		if fn.Name.Name == name && matches(fn.Type) {
			return true
		}
	}
	return false
}

// AddMethod attaches fn to the type. A missing receiver becomes a pointer
// receiver on n. The declaration is placed after the type's last method in
// the same file, or right after the type declaration.
func AddMethod(n *TypeNode, fn *ast.FuncDecl) error {
	if n.IsInterface() || n.IsAlias() {
		return fmt.Errorf("add method %s to %s: %w", fn.Name.Name, n.Name, ErrInvalidReceiver)
	}
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		fn.Recv = receiverFor(n, fn)
	} else if name, _ := astutils.BaseTypeName(fn.Recv.List[0].Type); name != n.Name {
		return fmt.Errorf("add method %s to %s: receiver is %s: %w", fn.Name.Name, n.Name, astutils.ExprToTypeName(fn.Recv.List[0].Type), ErrReceiverMismatch)
	}

	at := -1
	for i, decl := range n.File.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			if decl == n.Decl {
				at = i
			}
		case *ast.FuncDecl:
			if decl.Recv == nil || len(decl.Recv.List) == 0 {
				continue
			}
			if name, _ := astutils.BaseTypeName(decl.Recv.List[0].Type); name == n.Name {
				at = i
			}
		}
	}
	if at < 0 {
		n.File.Decls = append(n.File.Decls, fn)
		return nil
	}
	n.File.Decls = slices.Insert(n.File.Decls, at+1, ast.Decl(fn))
	return nil
}

// AddMethodIfNotPresent adds fn unless n already declares a method (or a
// field) with the same name. Go has no overloading, so a name collision is
// treated as presence regardless of the signature. It reports whether the
// method was added.
func AddMethodIfNotPresent(n *TypeNode, fn *ast.FuncDecl) (bool, error) {
	name := fn.Name.Name
	if HasMethod(n, name, nil) || HasField(n, name) {
		slog.Debug("method already present, skipping", "type", n.Name, "method", name)
		return false, nil
	}
	if err := AddMethod(n, fn); err != nil {
		return false, err
	}
	return true, nil
}

func receiverFor(n *TypeNode, fn *ast.FuncDecl) *ast.FieldList {
	recvName := stringutils.ReceiverName(n.Name)
	if usesName(fn.Type, recvName) {
		recvName = "recv"
	}

	var typ ast.Expr = ast.NewIdent(n.Name)
	if n.Spec.TypeParams != nil {
		var params []ast.Expr
		for _, f := range n.Spec.TypeParams.List {
			for _, ident := range f.Names {
				params = append(params, ast.NewIdent(ident.Name))
			}
		}
		if len(params) == 1 {
			typ = &ast.IndexExpr{X: typ, Index: params[0]}
		} else {
			typ = &ast.IndexListExpr{X: typ, Indices: params}
		}
	}
	return &ast.FieldList{List: []*ast.Field{{
		Names: []*ast.Ident{ast.NewIdent(recvName)},
		Type:  &ast.StarExpr{X: typ},
	}}}
}

func usesName(ft *ast.FuncType, name string) bool {
	for _, fl := range []*ast.FieldList{ft.Params, ft.Results} {
		if fl == nil {
			continue
		}
		for _, f := range fl.List {
			for _, ident := range f.Names {
				if ident.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// FindAllMethodsByName returns every method called name reachable from n:
// the method declared on n first, then methods of embedded types ordered
// by embedding depth and field order. The result is empty, never nil, when
// nothing matches.
func FindAllMethodsByName(n *TypeNode, name string) []*Method {
	methods := []*Method{}
	for _, spec := range interfaceMethods(n) {
		if spec.Names[0].Name == name {
			methods = append(methods, &Method{Name: name, Recv: n.Name, Spec: spec, Func: n.funcOf(spec.Names[0])})
		}
	}
	for _, fn := range declaredMethods(n) {
		if fn.Name.Name == name {
			methods = append(methods, &Method{
				Name: name,
				Recv: astutils.ExprToTypeName(fn.Recv.List[0].Type),
				Decl: fn,
				Func: n.funcOf(fn.Name),
			})
		}
	}
	return append(methods, promotedMethods(n, name)...)
}

// FindMethodByName returns the first method FindAllMethodsByName would
// return, or nil.
func FindMethodByName(n *TypeNode, name string) *Method {
	if all := FindAllMethodsByName(n, name); len(all) > 0 {
		return all[0]
	}
	return nil
}

func (n *TypeNode) funcOf(ident *ast.Ident) *types.Func {
	if n.Pkg == nil || n.Pkg.Info == nil {
		return nil
	}
	fn, _ := n.Pkg.Info.Defs[ident].(*types.Func)
	return fn
}

type embedding struct {
	named *types.Named
	via   []string
}

// embeddedOf lists the named types embedded in t's underlying struct or interface.
func embeddedOf(t *types.Named, via []string) []embedding {
	var out []embedding
	add := func(typ types.Type, field string) {
		if ptr, ok := typ.(*types.Pointer); ok {
			typ = ptr.Elem()
		}
		if named, ok := types.Unalias(typ).(*types.Named); ok {
			out = append(out, embedding{named: named, via: append(slices.Clone(via), field)})
		}
	}
	switch u := t.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if f := u.Field(i); f.Embedded() {
				add(f.Type(), f.Name())
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if named, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named); ok {
				add(named, named.Obj().Name())
			}
		}
	}
	return out
}

// promotedMethods walks embedded types breadth-first.
func promotedMethods(n *TypeNode, name string) []*Method {
	root, ok := types.Unalias(n.Type()).(*types.Named)
	if !ok {
		return nil
	}
	qf := n.Pkg.qualifier(n.File)
	seen := map[*types.Named]bool{root.Origin(): true}

	var methods []*Method
	level := embeddedOf(root, nil)
	for depth := 1; len(level) > 0; depth++ {
		var next []embedding
		for _, e := range level {
			if seen[e.named.Origin()] {
				continue
			}
			seen[e.named.Origin()] = true

			for i := 0; i < e.named.NumMethods(); i++ {
				if m := e.named.Method(i); m.Name() == name {
					recv := m.Type().(*types.Signature).Recv().Type()
					methods = append(methods, n.promoted(m, types.TypeString(recv, qf), depth, e.via))
				}
			}
			if iface, ok := e.named.Underlying().(*types.Interface); ok {
				for i := 0; i < iface.NumExplicitMethods(); i++ {
					if m := iface.ExplicitMethod(i); m.Name() == name {
						methods = append(methods, n.promoted(m, types.TypeString(e.named, qf), depth, e.via))
					}
				}
			}
			next = append(next, embeddedOf(e.named, e.via)...)
		}
		level = next
	}
	return methods
}

func (n *TypeNode) promoted(fn *types.Func, recv string, depth int, via []string) *Method {
	m := &Method{Name: fn.Name(), Recv: recv, Depth: depth, Via: via, Func: fn}
	if n.Pkg.Types == nil || fn.Pkg() == nil || fn.Pkg().Path() != n.Pkg.Types.Path() {
		return m
	}
	for _, file := range n.Pkg.Files {
		ast.Inspect(file, func(node ast.Node) bool {
			if m.Decl != nil || m.Spec != nil {
				return false
			}
			switch node := node.(type) {
			case *ast.FuncDecl:
				if node.Name.Pos() == fn.Pos() {
					m.Decl = node
				}
				return false
			case *ast.Field:
				if len(node.Names) > 0 && node.Names[0].Pos() == fn.Pos() {
					m.Spec = node
				}
			}
			return true
		})
	}
	return m
}
