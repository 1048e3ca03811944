package typenode_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhmo/typenode"
)

const shapesSrc = `package shapes

import "io"

type Shape interface{ Area() float64 }

type Solid interface {
	Shape
	Volume() float64
}

type Base struct{ side float64 }

func (b Base) Area() float64 { return b.side * b.side }

type Square struct{ Base }

type Cube struct{ *Square }

func (c *Cube) Volume() float64 { return c.Area() * c.side }

func (c *Cube) String() string { return "cube" }

type Unrelated struct{}

type Reader struct{ io.Reader }
`

func TestIsOrExtends(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)

	cases := []struct {
		child, parent string
		want          bool
	}{
		{"Square", "Square", true},
		{"Square", "Base", true},
		{"Cube", "Square", true},
		{"Cube", "Base", true},
		{"Solid", "Shape", true},
		{"Base", "Square", false},
		{"Square", "Shape", false},
		{"Unrelated", "Base", false},
		{"Shape", "Solid", false},
	}
	for _, tc := range cases {
		t.Run(tc.child+"/"+tc.parent, func(t *testing.T) {
			got := typenode.IsOrExtends(lookup(t, pkg, tc.child), lookup(t, pkg, tc.parent))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, typenode.IsOrExtendsName(lookup(t, pkg, tc.child), tc.parent))
		})
	}

	assert.False(t, typenode.IsOrExtends(nil, lookup(t, pkg, "Base")))
	assert.False(t, typenode.IsOrExtends(lookup(t, pkg, "Base"), nil))
}

func TestIsOrExtendsName(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)
	reader := lookup(t, pkg, "Reader")

	assert.True(t, typenode.IsOrExtendsName(reader, "io.Reader"))
	assert.True(t, typenode.IsOrExtendsName(reader, "shapes.Reader"))
	assert.False(t, typenode.IsOrExtendsName(reader, "io.Writer"))
	assert.False(t, typenode.IsOrExtendsName(reader, "Missing"))
	assert.False(t, typenode.IsOrExtendsName(reader, "nope.Missing"))
}

func TestIsOrImplements(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)

	cases := []struct {
		child, parent string
		want          bool
	}{
		{"Base", "Shape", true},
		{"Square", "Shape", true},
		{"Cube", "Shape", true},
		{"Cube", "Solid", true},
		{"Square", "Solid", false},
		{"Solid", "Shape", true},
		{"Shape", "Solid", false},
		{"Unrelated", "Shape", false},
		{"Square", "Square", true},
		{"Square", "Base", false},
	}
	for _, tc := range cases {
		t.Run(tc.child+"/"+tc.parent, func(t *testing.T) {
			got := typenode.IsOrImplements(lookup(t, pkg, tc.child), lookup(t, pkg, tc.parent))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsOrImplementsName(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)

	cases := []struct {
		child, parent string
		want          bool
	}{
		{"Reader", "io.Reader", true},
		{"Cube", "fmt.Stringer", true},
		{"Square", "fmt.Stringer", false},
		{"Unrelated", "any", true},
		{"Unrelated", "error", false},
		{"Square", "encoding.TextMarshaler", false},
		{"Square", "nope.Missing", false},
		{"Square", "Missing", false},
	}
	for _, tc := range cases {
		t.Run(tc.child+"/"+tc.parent, func(t *testing.T) {
			assert.Equal(t, tc.want, typenode.IsOrImplementsName(lookup(t, pkg, tc.child), tc.parent))
		})
	}
}

func TestIsOrImplementsType(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)
	cube := lookup(t, pkg, "Cube").Type()
	solid := lookup(t, pkg, "Solid").Type()

	assert.True(t, typenode.IsOrImplementsType(cube, solid))
	assert.True(t, typenode.IsOrImplementsType(types.NewPointer(cube), solid))
	assert.False(t, typenode.IsOrImplementsType(cube, nil))
	assert.False(t, typenode.IsOrImplementsType(types.Typ[types.Int], cube), "non-interface parents only match themselves")
	assert.True(t, typenode.IsOrImplementsType(types.Typ[types.Int], types.Typ[types.Int]))
}

func TestResolveType(t *testing.T) {
	pkg := loadPackage(t, shapesSrc)
	square := lookup(t, pkg, "Square")

	got := typenode.ResolveType(square, "io.Reader")
	require.NotNil(t, got)
	assert.Equal(t, "io.Reader", got.String())

	got = typenode.ResolveType(square, "encoding.TextMarshaler")
	require.NotNil(t, got, "packages not imported by the file come from the importer")
	assert.Equal(t, "encoding.TextMarshaler", got.String())

	assert.Equal(t, types.Universe.Lookup("error").Type(), typenode.ResolveType(square, "error"))
	assert.Same(t, lookup(t, pkg, "Base").Type(), typenode.ResolveType(square, "Base"))
	assert.Nil(t, typenode.ResolveType(square, "io.Missing"))
}
