package typenode

import (
	"fmt"
	"go/ast"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

// Field is one named (or embedded) struct field.
type Field struct {
	Name     string
	Tag      string   // raw tag literal, e.g. `json:"name,omitempty"`
	TypeExpr ast.Expr // AST expression for the field's type
	Embedded bool
	Node     *ast.Field
}

// GetTag parses the struct tag and returns the value associated with key.
func (f *Field) GetTag(key string) string {
	if f.Tag == "" {
		return ""
	}
	tag := f.Tag
	if unquoted, err := strconv.Unquote(tag); err == nil {
		tag = unquoted
	}
	return reflect.StructTag(tag).Get(key)
}

// TypeName returns the field type in source form.
func (f *Field) TypeName() string {
	return astutils.ExprToTypeName(f.TypeExpr)
}

// Fields returns all fields of a struct type, one entry per declared name;
// embedded fields carry their implicit name. Empty for non-struct types.
func Fields(n *TypeNode) []*Field {
	st, ok := n.StructType()
	if !ok || st.Fields == nil {
		return []*Field{}
	}
	fields := make([]*Field, 0, len(st.Fields.List))
	for _, f := range st.Fields.List {
		tag := ""
		if f.Tag != nil {
			tag = f.Tag.Value
		}
		if len(f.Names) == 0 {
			name, _ := astutils.BaseTypeName(f.Type)
			fields = append(fields, &Field{Name: name, Tag: tag, TypeExpr: f.Type, Embedded: true, Node: f})
			continue
		}
		for _, ident := range f.Names {
			fields = append(fields, &Field{Name: ident.Name, Tag: tag, TypeExpr: f.Type, Node: f})
		}
	}
	return fields
}

// InstanceFields returns the property fields of a struct type: named,
// non-embedded, non-blank fields in declaration order.
func InstanceFields(n *TypeNode) []*Field {
	var props []*Field
	for _, f := range Fields(n) {
		if f.Embedded || f.Name == "_" {
			continue
		}
		props = append(props, f)
	}
	if props == nil {
		return []*Field{}
	}
	return props
}

// HasField reports whether the struct declares a field (or embeds a type)
// called name. Promoted fields are not considered.
func HasField(n *TypeNode, name string) bool {
	for _, f := range Fields(n) {
		if f.Name == name {
			return true
		}
	}
	return false
}

// AddField appends field to the struct declaration.
func AddField(n *TypeNode, field *ast.Field) error {
	st, ok := n.StructType()
	if !ok {
		return fmt.Errorf("add field to %s: %w", n.Name, ErrNotStruct)
	}
	if st.Fields == nil {
		st.Fields = &ast.FieldList{}
	}
	st.Fields.List = append(st.Fields.List, field)
	return nil
}

// AddFieldIfNotPresent appends field unless one of its names is already
// taken by a field or a method of n; the existing member wins and nothing
// is changed. It reports whether the field was added.
func AddFieldIfNotPresent(n *TypeNode, field *ast.Field) (bool, error) {
	if !n.IsStruct() {
		return false, fmt.Errorf("add field to %s: %w", n.Name, ErrNotStruct)
	}
	for _, name := range fieldNames(field) {
		if HasField(n, name) || HasMethod(n, name, nil) {
			slog.Debug("field already present, skipping", "type", n.Name, "field", name)
			return false, nil
		}
	}
	return true, AddField(n, field)
}

func fieldNames(f *ast.Field) []string {
	if len(f.Names) == 0 {
		name, _ := astutils.BaseTypeName(f.Type)
		return []string{name}
	}
	names := make([]string, len(f.Names))
	for i, ident := range f.Names {
		names[i] = ident.Name
	}
	return names
}
