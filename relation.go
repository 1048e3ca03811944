package typenode

import (
	"go/types"
	"log/slog"
	"strings"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

// IsOrExtends reports whether child is parent, or embeds parent directly or
// through other embedded types. For interfaces, embedding an interface
// counts as extending it.
func IsOrExtends(child, parent *TypeNode) bool {
	if child == nil || parent == nil {
		return false
	}
	if child == parent || child.QualifiedName() == parent.QualifiedName() {
		return true
	}
	return IsOrExtendsType(child.Type(), parent.Type())
}

// IsOrExtendsName is IsOrExtends with the parent given by name: "Local",
// "pkg.Name" (as imported by child's file) or "import/path.Name".
// An unresolvable name yields false.
func IsOrExtendsName(child *TypeNode, parent string) bool {
	if child == nil {
		return false
	}
	if parent == child.Name || parent == child.QualifiedName() {
		return true
	}
	return IsOrExtendsType(child.Type(), ResolveType(child, parent))
}

// IsOrExtendsType reports whether child is identical to parent or embeds it,
// transitively. Pointer embedding (struct{ *T }) counts.
func IsOrExtendsType(child, parent types.Type) bool {
	if child == nil || parent == nil {
		return false
	}
	if types.Identical(child, parent) {
		return true
	}
	return embeds(child, parent, map[types.Type]bool{})
}

func embeds(t types.Type, target types.Type, seen map[types.Type]bool) bool {
	if named, ok := types.Unalias(t).(*types.Named); ok {
		if seen[named.Origin()] {
			return false
		}
		seen[named.Origin()] = true
	}

	var embedded []types.Type
	switch u := t.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			if f := u.Field(i); f.Embedded() {
				embedded = append(embedded, f.Type())
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			embedded = append(embedded, u.EmbeddedType(i))
		}
	}

	for _, e := range embedded {
		base := e
		if ptr, ok := e.(*types.Pointer); ok {
			base = ptr.Elem()
		}
		if types.Identical(e, target) || types.Identical(base, target) {
			return true
		}
		if embeds(base, target, seen) {
			return true
		}
	}
	return false
}

// IsOrImplements reports whether child is parent, or parent is an interface
// satisfied by child or *child.
func IsOrImplements(child, parent *TypeNode) bool {
	if child == nil || parent == nil {
		return false
	}
	if child == parent || child.QualifiedName() == parent.QualifiedName() {
		return true
	}
	return IsOrImplementsType(child.Type(), parent.Type())
}

// IsOrImplementsName is IsOrImplements with the parent given by name, as
// accepted by ResolveType. An unresolvable name yields false.
func IsOrImplementsName(child *TypeNode, parent string) bool {
	if child == nil {
		return false
	}
	if parent == child.Name || parent == child.QualifiedName() {
		return true
	}
	return IsOrImplementsType(child.Type(), ResolveType(child, parent))
}

// IsOrImplementsType reports whether child is identical to parent, or parent
// is an interface whose method set is satisfied by child or, for
// non-interface types, by *child.
func IsOrImplementsType(child, parent types.Type) bool {
	if child == nil || parent == nil {
		return false
	}
	if types.Identical(child, parent) {
		return true
	}
	iface, ok := parent.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	if types.Implements(child, iface) {
		return true
	}
	if types.IsInterface(child) {
		return false
	}
	if _, isPtr := child.(*types.Pointer); isPtr {
		return false
	}
	return types.Implements(types.NewPointer(child), iface)
}

// ResolveType resolves a type name in the context of n's file and package.
// Accepted forms are "Name" (package scope, then universe), "alias.Name"
// (an import of n's file or package) and "import/path.Name". When the path
// is not imported, the package's importer is consulted. It returns nil when
// the name cannot be resolved.
func ResolveType(n *TypeNode, name string) types.Type {
	if n == nil || n.Pkg == nil || n.Pkg.Types == nil {
		return nil
	}
	p := n.Pkg

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		if obj, ok := p.Types.Scope().Lookup(name).(*types.TypeName); ok {
			return obj.Type()
		}
		if obj, ok := types.Universe.Lookup(name).(*types.TypeName); ok {
			return obj.Type()
		}
		slog.Debug("cannot resolve type name", "name", name, "package", p.Path)
		return nil
	}

	pkgPart, typeName := name[:dot], name[dot+1:]
	if pkgPart == p.Path {
		return lookupType(p.Types, typeName)
	}
	if path := astutils.GetImportPath(n.File, pkgPart); path != "" {
		pkgPart = path
	}
	for _, imp := range p.Types.Imports() {
		if imp.Path() == pkgPart {
			return lookupType(imp, typeName)
		}
	}
	for _, imp := range p.Types.Imports() {
		if !strings.Contains(pkgPart, "/") && imp.Name() == pkgPart {
			return lookupType(imp, typeName)
		}
	}
	if p.Importer == nil {
		slog.Debug("cannot resolve package without importer", "package", pkgPart, "name", name)
		return nil
	}
	imported, err := p.Importer.Import(pkgPart)
	if err != nil {
		slog.Debug("cannot import package", "package", pkgPart, "error", err)
		return nil
	}
	return lookupType(imported, typeName)
}

func lookupType(pkg *types.Package, name string) types.Type {
	if obj, ok := pkg.Scope().Lookup(name).(*types.TypeName); ok {
		return obj.Type()
	}
	return nil
}
