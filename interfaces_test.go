package typenode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podhmo/typenode"
)

const storeSrc = `package store

import "context"

type Getter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

type Closer interface{ Close() error }

type Itemer interface{ items() map[string][]byte }

type Cache struct{ items map[string][]byte }

func (c *Cache) Close() error { return nil }

type Flags int
`

func TestAddInterfaces(t *testing.T) {
	pkg := loadPackage(t, storeSrc)
	cache := lookup(t, pkg, "Cache")
	getter := lookup(t, pkg, "Getter").Type()
	closer := lookup(t, pkg, "Closer").Type()

	added, err := typenode.AddInterfaces(cache, getter, closer)
	require.NoError(t, err)
	assert.Equal(t, []string{"Get"}, added, "Close is already declared")

	out := normalizeForContains(render(t, pkg))
	assert.Contains(t, out, `func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) { panic("not implemented") }`)

	require.NoError(t, pkg.Recheck())
	require.Empty(t, pkg.TypeErrors)
	assert.True(t, typenode.IsOrImplementsName(lookup(t, pkg, "Cache"), "Getter"))

	// once implemented, nothing more is added
	once := render(t, pkg)
	added, err = typenode.AddInterfaces(lookup(t, pkg, "Cache"), getter, closer)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, once, render(t, pkg))
}

func TestAddInterfaces_NonStruct(t *testing.T) {
	pkg := loadPackage(t, storeSrc)

	added, err := typenode.AddInterfaces(lookup(t, pkg, "Flags"), lookup(t, pkg, "Closer").Type())
	require.NoError(t, err)
	assert.Equal(t, []string{"Close"}, added)
	assert.Contains(t, normalizeForContains(render(t, pkg)), "func (f *Flags) Close() error {")
}

func TestAddInterfacesByName(t *testing.T) {
	pkg := loadPackage(t, storeSrc)
	cache := lookup(t, pkg, "Cache")

	added, err := typenode.AddInterfacesByName(cache, "io.Writer", "fmt.Stringer", "io.WriterTo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Write", "String", "WriteTo"}, added)

	out := normalizeForContains(render(t, pkg))
	assert.Contains(t, out, "func (c *Cache) Write(p []byte) (n int, err error) {")
	assert.Contains(t, out, "func (c *Cache) String() string {")
	assert.Contains(t, out, "func (c *Cache) WriteTo(w io.Writer) (n int64, err error) {")
	assert.Contains(t, out, `"io"`, "the io import is added for io.Writer in the signature")

	require.NoError(t, pkg.Recheck())
	assert.Empty(t, pkg.TypeErrors)
}

func TestAddInterfaces_Errors(t *testing.T) {
	t.Run("interface receiver", func(t *testing.T) {
		pkg := loadPackage(t, storeSrc)
		_, err := typenode.AddInterfaces(lookup(t, pkg, "Getter"), lookup(t, pkg, "Closer").Type())
		assert.ErrorIs(t, err, typenode.ErrInvalidReceiver)
	})

	t.Run("not an interface", func(t *testing.T) {
		pkg := loadPackage(t, storeSrc)
		_, err := typenode.AddInterfaces(lookup(t, pkg, "Cache"), lookup(t, pkg, "Flags").Type())
		assert.ErrorIs(t, err, typenode.ErrNotInterface)
	})

	t.Run("method collides with a field", func(t *testing.T) {
		pkg := loadPackage(t, storeSrc)
		_, err := typenode.AddInterfaces(lookup(t, pkg, "Cache"), lookup(t, pkg, "Itemer").Type())
		assert.ErrorIs(t, err, typenode.ErrInvalidReceiver)
	})

	t.Run("unknown name", func(t *testing.T) {
		pkg := loadPackage(t, storeSrc)
		_, err := typenode.AddInterfacesByName(lookup(t, pkg, "Cache"), "Missing")
		var nf *typenode.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "interface", nf.Kind)
		assert.Equal(t, "Missing", nf.Name)
	})
}
