package astutils

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
)

// TypeToExpr builds an AST expression for t. Package-qualified names are
// rendered with the name returned by qf; an empty name means "unqualified".
// The returned nodes carry no positions, so they can be spliced into any file.
func TypeToExpr(t types.Type, qf types.Qualifier) ast.Expr {
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return &ast.SelectorExpr{X: ast.NewIdent("unsafe"), Sel: ast.NewIdent("Pointer")}
		}
		return ast.NewIdent(t.Name())
	case *types.Named:
		return withTypeArgs(objectExpr(t.Obj(), qf), t.TypeArgs(), qf)
	case *types.Alias:
		return withTypeArgs(objectExpr(t.Obj(), qf), t.TypeArgs(), qf)
	case *types.TypeParam:
		return ast.NewIdent(t.Obj().Name())
	case *types.Pointer:
		return &ast.StarExpr{X: TypeToExpr(t.Elem(), qf)}
	case *types.Slice:
		return &ast.ArrayType{Elt: TypeToExpr(t.Elem(), qf)}
	case *types.Array:
		return &ast.ArrayType{
			Len: &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(t.Len(), 10)},
			Elt: TypeToExpr(t.Elem(), qf),
		}
	case *types.Map:
		return &ast.MapType{Key: TypeToExpr(t.Key(), qf), Value: TypeToExpr(t.Elem(), qf)}
	case *types.Chan:
		dir := ast.SEND | ast.RECV
		switch t.Dir() {
		case types.SendOnly:
			dir = ast.SEND
		case types.RecvOnly:
			dir = ast.RECV
		}
		return &ast.ChanType{Dir: dir, Value: TypeToExpr(t.Elem(), qf)}
	case *types.Signature:
		return FuncTypeOf(t, qf)
	case *types.Struct:
		if t.NumFields() == 0 {
			// positionless empty braces print across two lines
			return ast.NewIdent("struct{}")
		}
		fields := &ast.FieldList{}
		for i := 0; i < t.NumFields(); i++ {
			v := t.Field(i)
			f := &ast.Field{Type: TypeToExpr(v.Type(), qf)}
			if !v.Embedded() {
				f.Names = []*ast.Ident{ast.NewIdent(v.Name())}
			}
			if tag := t.Tag(i); tag != "" {
				f.Tag = &ast.BasicLit{Kind: token.STRING, Value: quoteTag(tag)}
			}
			fields.List = append(fields.List, f)
		}
		return &ast.StructType{Fields: fields}
	case *types.Interface:
		if t.NumEmbeddeds() == 0 && t.NumExplicitMethods() == 0 {
			return ast.NewIdent("interface{}")
		}
		methods := &ast.FieldList{}
		for i := 0; i < t.NumEmbeddeds(); i++ {
			methods.List = append(methods.List, &ast.Field{Type: TypeToExpr(t.EmbeddedType(i), qf)})
		}
		for i := 0; i < t.NumExplicitMethods(); i++ {
			m := t.ExplicitMethod(i)
			methods.List = append(methods.List, &ast.Field{
				Names: []*ast.Ident{ast.NewIdent(m.Name())},
				Type:  FuncTypeOf(m.Type().(*types.Signature), qf),
			})
		}
		return &ast.InterfaceType{Methods: methods}
	case *types.Union:
		var expr ast.Expr
		for i := 0; i < t.Len(); i++ {
			term := t.Term(i)
			var x ast.Expr = TypeToExpr(term.Type(), qf)
			if term.Tilde() {
				x = &ast.UnaryExpr{Op: token.TILDE, X: x}
			}
			if expr == nil {
				expr = x
			} else {
				expr = &ast.BinaryExpr{X: expr, Op: token.OR, Y: x}
			}
		}
		return expr
	default:
		return ast.NewIdent(types.TypeString(t, qf))
	}
}

func quoteTag(tag string) string {
	if strconv.CanBackquote(tag) {
		return "`" + tag + "`"
	}
	return strconv.Quote(tag)
}

func objectExpr(obj *types.TypeName, qf types.Qualifier) ast.Expr {
	if obj.Pkg() == nil || qf == nil {
		return ast.NewIdent(obj.Name())
	}
	if name := qf(obj.Pkg()); name != "" {
		return &ast.SelectorExpr{X: ast.NewIdent(name), Sel: ast.NewIdent(obj.Name())}
	}
	return ast.NewIdent(obj.Name())
}

func withTypeArgs(x ast.Expr, args *types.TypeList, qf types.Qualifier) ast.Expr {
	if args == nil || args.Len() == 0 {
		return x
	}
	if args.Len() == 1 {
		return &ast.IndexExpr{X: x, Index: TypeToExpr(args.At(0), qf)}
	}
	indices := make([]ast.Expr, args.Len())
	for i := range indices {
		indices[i] = TypeToExpr(args.At(i), qf)
	}
	return &ast.IndexListExpr{X: x, Indices: indices}
}

// FuncTypeOf builds a func type expression for sig, receiver excluded.
// Parameter names are kept when every parameter is named; otherwise unnamed
// parameters are written as "_" so the result is always valid as a declaration.
func FuncTypeOf(sig *types.Signature, qf types.Qualifier) *ast.FuncType {
	return &ast.FuncType{
		Params:  tupleToFieldList(sig.Params(), sig.Variadic(), qf, true),
		Results: tupleToFieldList(sig.Results(), false, qf, false),
	}
}

func tupleToFieldList(tuple *types.Tuple, variadic bool, qf types.Qualifier, params bool) *ast.FieldList {
	fl := &ast.FieldList{}
	if tuple == nil {
		return fl
	}
	named := false
	for i := 0; i < tuple.Len(); i++ {
		if name := tuple.At(i).Name(); name != "" && name != "_" {
			named = true
			break
		}
	}
	for i := 0; i < tuple.Len(); i++ {
		v := tuple.At(i)
		var typ ast.Expr
		if variadic && i == tuple.Len()-1 {
			if s, ok := v.Type().(*types.Slice); ok {
				typ = &ast.Ellipsis{Elt: TypeToExpr(s.Elem(), qf)}
			}
		}
		if typ == nil {
			typ = TypeToExpr(v.Type(), qf)
		}
		f := &ast.Field{Type: typ}
		if named || (params && v.Name() != "") {
			name := v.Name()
			if name == "" {
				name = "_"
			}
			f.Names = []*ast.Ident{ast.NewIdent(name)}
		}
		fl.List = append(fl.List, f)
	}
	return fl
}

var posType = reflect.TypeOf(token.NoPos)

// ResetPositions zeroes every token.Pos reachable from n. Nodes parsed
// against another FileSet must be reset before they are attached to a file,
// otherwise the printer interprets their offsets against the wrong file.
func ResetPositions(n ast.Node) {
	ast.Inspect(n, func(node ast.Node) bool {
		if node == nil {
			return false
		}
		v := reflect.ValueOf(node)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return true
		}
		v = v.Elem()
		if v.Kind() != reflect.Struct {
			return true
		}
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.Type() == posType && f.CanSet() {
				f.SetInt(int64(token.NoPos))
			}
		}
		return true
	})
}
