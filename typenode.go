// Package typenode provides helpers over Go named type declarations:
// adding fields and methods (optionally only when absent), making a type
// implement interfaces, reading annotation comments, answering
// embedding and interface-satisfaction questions, and finding methods by
// name.
//
// Every helper works on nodes owned by the caller's *ast.File values.
// Nothing is cached; helpers are synchronous and keep no state of their own.
package typenode

import (
	"go/ast"
	"go/types"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

// TypeNode is a package-level type declaration: `type Name ...`.
type TypeNode struct {
	Name string
	Spec *ast.TypeSpec
	Decl *ast.GenDecl // the enclosing `type` declaration
	File *ast.File
	Pkg  *Package
}

// Object returns the type-checked object for the declaration, or nil when
// the package has no type information or the name does not resolve.
func (n *TypeNode) Object() *types.TypeName {
	if n == nil || n.Pkg == nil || n.Pkg.Types == nil {
		return nil
	}
	obj, _ := n.Pkg.Types.Scope().Lookup(n.Name).(*types.TypeName)
	return obj
}

// Type returns the declared type (usually a *types.Named), or nil.
func (n *TypeNode) Type() types.Type {
	obj := n.Object()
	if obj == nil {
		return nil
	}
	return obj.Type()
}

// QualifiedName returns "importpath.Name".
func (n *TypeNode) QualifiedName() string {
	if n.Pkg == nil || n.Pkg.Path == "" {
		return n.Name
	}
	return n.Pkg.Path + "." + n.Name
}

// StructType returns the struct literal of the declaration, if it is one.
func (n *TypeNode) StructType() (*ast.StructType, bool) {
	st, ok := n.Spec.Type.(*ast.StructType)
	return st, ok
}

// InterfaceType returns the interface literal of the declaration, if it is one.
func (n *TypeNode) InterfaceType() (*ast.InterfaceType, bool) {
	it, ok := n.Spec.Type.(*ast.InterfaceType)
	return it, ok
}

// IsStruct reports whether the declaration is a struct type.
func (n *TypeNode) IsStruct() bool {
	_, ok := n.StructType()
	return ok
}

// IsInterface reports whether the declaration is an interface type.
func (n *TypeNode) IsInterface() bool {
	_, ok := n.InterfaceType()
	return ok
}

// IsAlias reports whether the declaration is an alias (`type A = B`).
func (n *TypeNode) IsAlias() bool {
	return n.Spec.Assign.IsValid()
}

// Doc returns the doc comment of the declaration. A lone spec inside an
// unparenthesized `type` declaration takes the declaration's comment.
func (n *TypeNode) Doc() *ast.CommentGroup {
	if n.Spec.Doc != nil {
		return n.Spec.Doc
	}
	if n.Decl != nil && !n.Decl.Lparen.IsValid() {
		return n.Decl.Doc
	}
	return nil
}

func (n *TypeNode) files() []*ast.File {
	if n.Pkg != nil && len(n.Pkg.Files) > 0 {
		return n.Pkg.Files
	}
	if n.File != nil {
		return []*ast.File{n.File}
	}
	return nil
}

func (n *TypeNode) String() string {
	return n.QualifiedName()
}

func importName(file *ast.File, path string) string {
	return astutils.GetImportName(file, path)
}
