package typenode

import (
	"strings"

	"github.com/podhmo/typenode/internal/annotation"
)

// Annotation is a marker read from a doc comment, e.g. `// @Entity{Table: "users"}`
// or a directive such as `//typenode:skip`.
type Annotation = annotation.Annotation

// Annotations returns the annotations in the type's doc and line comments,
// in source order.
func Annotations(n *TypeNode) []*Annotation {
	annotations := annotation.Parse(n.Doc())
	return append(annotations, annotation.Parse(n.Spec.Comment)...)
}

// FindAnnotation returns the first annotation called name, or nil.
// A leading "@" in name is ignored.
func FindAnnotation(n *TypeNode, name string) *Annotation {
	name = strings.TrimPrefix(name, "@")
	for _, a := range Annotations(n) {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// FindAllAnnotations returns every annotation called name; empty when none match.
func FindAllAnnotations(n *TypeNode, name string) []*Annotation {
	name = strings.TrimPrefix(name, "@")
	found := []*Annotation{}
	for _, a := range Annotations(n) {
		if a.Name == name {
			found = append(found, a)
		}
	}
	return found
}
