package astutils

import (
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"strconv"
	"strings"
)

// EvalResult holds the result of an evaluation.
// If Value is not nil, it's a directly evaluated value.
// If IdentifierName is not empty, the expression was an identifier
// that the caller may want to resolve further.
// PkgName is set for qualified identifiers like pkg.MyConst.
type EvalResult struct {
	Value          any
	IdentifierName string
	PkgName        string
}

// String returns the identifier in source form ("pkg.Name" or "Name").
func (r EvalResult) String() string {
	if r.PkgName != "" {
		return r.PkgName + "." + r.IdentifierName
	}
	return r.IdentifierName
}

// ExprToTypeName converts an ast.Expr (representing a type) to its string representation.
func ExprToTypeName(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr: // pkg.Type
		return fmt.Sprintf("%s.%s", ExprToTypeName(t.X), t.Sel.Name)
	case *ast.StarExpr:
		return "*" + ExprToTypeName(t.X)
	case *ast.ParenExpr:
		return ExprToTypeName(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + ExprToTypeName(t.Elt)
		}
		if lit, ok := t.Len.(*ast.BasicLit); ok {
			return "[" + lit.Value + "]" + ExprToTypeName(t.Elt)
		}
		if _, ok := t.Len.(*ast.Ellipsis); ok {
			return "[...]" + ExprToTypeName(t.Elt)
		}
		return "[" + ExprToTypeName(t.Len) + "]" + ExprToTypeName(t.Elt)
	case *ast.Ellipsis:
		return "..." + ExprToTypeName(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", ExprToTypeName(t.Key), ExprToTypeName(t.Value))
	case *ast.ChanType:
		switch t.Dir {
		case ast.SEND:
			return "chan<- " + ExprToTypeName(t.Value)
		case ast.RECV:
			return "<-chan " + ExprToTypeName(t.Value)
		default:
			return "chan " + ExprToTypeName(t.Value)
		}
	case *ast.FuncType:
		return "func" + fieldListTypeNames(t.Params, true) + resultTypeNames(t.Results)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return "struct{}"
		}
		return "struct{...}"
	case *ast.IndexExpr: // generic instantiation with one argument
		return ExprToTypeName(t.X) + "[" + ExprToTypeName(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, idx := range t.Indices {
			args[i] = ExprToTypeName(idx)
		}
		return ExprToTypeName(t.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		return fmt.Sprintf("<unsupported_type_expr: %T>", expr)
	}
}

// FieldListTypeNames returns the type names of a parameter list, one entry per
// declared name (an unnamed field counts once).
func FieldListTypeNames(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var names []string
	for _, f := range fl.List {
		typeName := ExprToTypeName(f.Type)
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			names = append(names, typeName)
		}
	}
	return names
}

func fieldListTypeNames(fl *ast.FieldList, paren bool) string {
	s := strings.Join(FieldListTypeNames(fl), ", ")
	if paren {
		return "(" + s + ")"
	}
	return s
}

func resultTypeNames(fl *ast.FieldList) string {
	names := FieldListTypeNames(fl)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return " " + names[0]
	default:
		return " (" + strings.Join(names, ", ") + ")"
	}
}

// IsPointerType checks if an ast.Expr represents a pointer type.
func IsPointerType(expr ast.Expr) bool {
	_, ok := expr.(*ast.StarExpr)
	return ok
}

// BaseTypeName strips pointers and type arguments from a receiver or field
// type expression and returns the bare type name (e.g. "*List[T]" -> "List").
// For qualified names only the selector is returned. The second result reports
// whether a pointer was stripped.
func BaseTypeName(expr ast.Expr) (string, bool) {
	isPointer := false
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			isPointer = true
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name, isPointer
		case *ast.SelectorExpr:
			return t.Sel.Name, isPointer
		default:
			return "", isPointer
		}
	}
}

// GetImportPath returns the import path for a given alias (import name) in the file.
// Supports blank imports (_), dot imports (.), and normal/aliased imports.
func GetImportPath(file *ast.File, alias string) string {
	if file == nil {
		return ""
	}
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if imp.Name != nil {
			switch imp.Name.Name {
			case "_", ".":
				if alias == lastPathPart(path) {
					return path
				}
			default:
				if alias == imp.Name.Name {
					return path
				}
			}
		} else if alias == lastPathPart(path) {
			return path
		}
	}
	return ""
}

// GetImportName returns the name under which path is imported in file,
// or "" when the file does not import it under a usable name.
// Blank and dot imports are not usable qualifiers.
func GetImportName(file *ast.File, path string) string {
	if file == nil {
		return ""
	}
	for _, imp := range file.Imports {
		if strings.Trim(imp.Path.Value, `"`) != path {
			continue
		}
		if imp.Name == nil {
			return lastPathPart(path)
		}
		if imp.Name.Name != "_" && imp.Name.Name != "." {
			return imp.Name.Name
		}
	}
	return ""
}

// lastPathPart returns the last element of a slash-separated path.
func lastPathPart(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// EvaluateArg evaluates a literal-ish expression such as an annotation argument.
// It supports basic literals (strings, integers, floats, chars),
// true, false, nil, unary minus on numbers and selector expressions.
func EvaluateArg(arg ast.Expr) EvalResult {
	switch v := arg.(type) {
	case *ast.BasicLit:
		switch v.Kind {
		case token.INT:
			i, err := strconv.ParseInt(v.Value, 0, 64)
			if err == nil {
				return EvalResult{Value: i}
			}
			slog.Debug("EvaluateArg: failed to parse integer literal", "value", v.Value, "error", err)
		case token.FLOAT:
			f, err := strconv.ParseFloat(v.Value, 64)
			if err == nil {
				return EvalResult{Value: f}
			}
			slog.Debug("EvaluateArg: failed to parse float literal", "value", v.Value, "error", err)
		case token.STRING:
			s, err := strconv.Unquote(v.Value)
			if err == nil {
				return EvalResult{Value: s}
			}
			slog.Debug("EvaluateArg: failed to unquote string literal", "value", v.Value, "error", err)
		case token.CHAR:
			s, err := strconv.Unquote(v.Value) // a char literal unquotes to a one-rune string
			if err == nil && len([]rune(s)) == 1 {
				return EvalResult{Value: []rune(s)[0]}
			}
			slog.Debug("EvaluateArg: failed to unquote char literal", "value", v.Value, "error", err)
		default:
			return EvalResult{Value: v.Value}
		}
		return EvalResult{}
	case *ast.ParenExpr:
		return EvaluateArg(v.X)
	case *ast.Ident:
		switch v.Name {
		case "true":
			return EvalResult{Value: true}
		case "false":
			return EvalResult{Value: false}
		case "nil":
			return EvalResult{Value: nil}
		default:
			return EvalResult{IdentifierName: v.Name}
		}
	case *ast.UnaryExpr:
		if v.Op != token.SUB {
			slog.Debug("EvaluateArg: unsupported unary operator", "op", v.Op)
			return EvalResult{}
		}
		switch val := EvaluateArg(v.X).Value.(type) {
		case int64:
			return EvalResult{Value: -val}
		case float64:
			return EvalResult{Value: -val}
		default:
			slog.Debug("EvaluateArg: unary minus on non-numeric operand", "operand", fmt.Sprintf("%T", v.X))
			return EvalResult{}
		}
	case *ast.SelectorExpr: // pkg.MyConst
		if xIdent, ok := v.X.(*ast.Ident); ok {
			return EvalResult{IdentifierName: v.Sel.Name, PkgName: xIdent.Name}
		}
		slog.Debug("EvaluateArg: unsupported selector expression", "x", fmt.Sprintf("%T", v.X))
		return EvalResult{}
	default:
		slog.Debug("EvaluateArg: unsupported argument expression", "type", fmt.Sprintf("%T", arg))
		return EvalResult{}
	}
}

// EvaluateSliceArg evaluates a composite literal of simple values (e.g. []string{"a", "b"}).
// If the argument is an identifier, IdentifierName (and optionally PkgName) is set instead.
func EvaluateSliceArg(arg ast.Expr) EvalResult {
	switch v := arg.(type) {
	case *ast.CompositeLit:
		results := make([]any, 0, len(v.Elts))
		for _, elt := range v.Elts {
			r := EvaluateArg(elt)
			switch {
			case r.Value != nil:
				results = append(results, r.Value)
			case r.IdentifierName != "":
				slog.Debug("EvaluateSliceArg: element is an identifier, cannot evaluate directly", "identifier", r.String())
				return EvalResult{}
			default:
				slog.Debug("EvaluateSliceArg: failed to evaluate element", "element", ExprToTypeName(elt))
				return EvalResult{}
			}
		}
		return EvalResult{Value: results}
	case *ast.Ident:
		return EvalResult{IdentifierName: v.Name}
	case *ast.SelectorExpr:
		if xIdent, ok := v.X.(*ast.Ident); ok {
			return EvalResult{IdentifierName: v.Sel.Name, PkgName: xIdent.Name}
		}
		return EvalResult{}
	default:
		slog.Debug("EvaluateSliceArg: argument is not a composite literal, identifier, or selector", "type", fmt.Sprintf("%T", arg))
		return EvalResult{}
	}
}
