// Package report holds the serializable views printed by the typenode command.
package report

import (
	"encoding/json"
	"fmt"
	"go/token"
	"go/types"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/podhmo/typenode"
	"github.com/podhmo/typenode/internal/utils/astutils"
)

// FieldReport describes one struct field.
type FieldReport struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"` // unquoted, e.g. json:"id"
	Embedded bool   `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

// MethodReport describes a declared or promoted method.
type MethodReport struct {
	Name        string                 `json:"name" yaml:"name"`
	Receiver    string                 `json:"receiver" yaml:"receiver"`
	Signature   string                 `json:"signature" yaml:"signature"`
	Depth       int                    `json:"depth" yaml:"depth"`
	Via         []string               `json:"via,omitempty" yaml:"via,omitempty"` // embedded fields, outermost first
	Position    string                 `json:"position,omitempty" yaml:"position,omitempty"`
	Annotations []*typenode.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// AnnotationReport is the answer to an annotation lookup on a type.
type AnnotationReport struct {
	Type        string                 `json:"type" yaml:"type"`
	Name        string                 `json:"name" yaml:"name"`
	Found       bool                   `json:"found" yaml:"found"`
	Annotations []*typenode.Annotation `json:"annotations" yaml:"annotations"`
}

// RelationReport is the answer to an extends or implements question.
type RelationReport struct {
	Type     string `json:"type" yaml:"type"`
	Relation string `json:"relation" yaml:"relation"` // "extends" or "implements"
	Target   string `json:"target" yaml:"target"`
	Result   bool   `json:"result" yaml:"result"`
}

// Fields builds the reports for fields of n.
func Fields(n *typenode.TypeNode, fields []*typenode.Field) []FieldReport {
	reports := make([]FieldReport, 0, len(fields))
	for _, f := range fields {
		tag := f.Tag
		if unquoted, err := strconv.Unquote(tag); err == nil {
			tag = unquoted
		}
		reports = append(reports, FieldReport{
			Name:     f.Name,
			Type:     f.TypeName(),
			Tag:      tag,
			Embedded: f.Embedded,
			Position: position(n.Pkg.Fset, f.Node.Pos()),
		})
	}
	return reports
}

// Methods builds the reports for methods found on n.
func Methods(n *typenode.TypeNode, methods []*typenode.Method) []MethodReport {
	reports := make([]MethodReport, 0, len(methods))
	for _, m := range methods {
		reports = append(reports, MethodReport{
			Name:        m.Name,
			Receiver:    m.Recv,
			Signature:   signature(n, m),
			Depth:       m.Depth,
			Via:         m.Via,
			Position:    position(n.Pkg.Fset, m.Pos()),
			Annotations: m.Annotations(),
		})
	}
	return reports
}

// Annotations builds the report for the annotations called name on n.
func Annotations(n *typenode.TypeNode, name string) AnnotationReport {
	found := typenode.FindAllAnnotations(n, name)
	return AnnotationReport{Type: n.Name, Name: name, Found: len(found) > 0, Annotations: found}
}

func signature(n *typenode.TypeNode, m *typenode.Method) string {
	switch {
	case m.Decl != nil:
		return astutils.ExprToTypeName(m.Decl.Type)
	case m.Spec != nil:
		return astutils.ExprToTypeName(m.Spec.Type)
	case m.Func != nil:
		return types.TypeString(m.Func.Type(), types.RelativeTo(n.Pkg.Types))
	}
	return ""
}

func position(fset *token.FileSet, pos token.Pos) string {
	if fset == nil || !pos.IsValid() {
		return ""
	}
	return fset.Position(pos).String()
}

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encode writes v to w in the given format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}
