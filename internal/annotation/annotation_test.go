package annotation

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComment(t *testing.T) {
	cases := []struct {
		name    string
		comment string
		want    *Annotation // nil means not an annotation
	}{
		{
			name:    "bare",
			comment: "// @Entity",
			want:    &Annotation{Name: "Entity", Raw: "@Entity"},
		},
		{
			name:    "qualified name",
			comment: "// @json.Omit",
			want:    &Annotation{Name: "json.Omit", Raw: "@json.Omit"},
		},
		{
			name:    "positional arguments",
			comment: `// @Flag(true, -2, 1.5, 'x', "s")`,
			want: &Annotation{
				Name: "Flag", Raw: `@Flag(true, -2, 1.5, 'x', "s")`,
				Args: []any{true, int64(-2), 1.5, 'x', "s"},
			},
		},
		{
			name:    "keyed values",
			comment: `// @Entity{Table: "users", Shards: 3}`,
			want: &Annotation{
				Name: "Entity", Raw: `@Entity{Table: "users", Shards: 3}`,
				Values: map[string]any{"Table": "users", "Shards": int64(3)},
			},
		},
		{
			name:    "slice and identifier arguments",
			comment: `// @Tags([]string{"a", "b"}, pkg.Name)`,
			want: &Annotation{
				Name: "Tags", Raw: `@Tags([]string{"a", "b"}, pkg.Name)`,
				Args: []any{[]any{"a", "b"}, "pkg.Name"},
			},
		},
		{
			name:    "trailing text is ignored",
			comment: `// @Doc("a (paren)") and more words`,
			want: &Annotation{
				Name: "Doc", Raw: `@Doc("a (paren)") and more words`,
				Args: []any{"a (paren)"},
			},
		},
		{
			name:    "no space after slashes",
			comment: "//@Tight",
			want:    &Annotation{Name: "Tight", Raw: "@Tight"},
		},
		{
			name:    "unbalanced arguments keep the name",
			comment: "// @Broken(1, 2",
			want:    &Annotation{Name: "Broken", Raw: "@Broken(1, 2"},
		},
		{
			name:    "directive",
			comment: `//typenode:skip fast reason="too big"`,
			want: &Annotation{
				Name: "typenode:skip", Raw: `typenode:skip fast reason="too big"`, Directive: true,
				Args:   []any{"fast"},
				Values: map[string]any{"reason": "too big"},
			},
		},
		{
			name:    "bare directive",
			comment: "//go:generate",
			want:    &Annotation{Name: "go:generate", Raw: "go:generate", Directive: true},
		},
		{name: "plain text", comment: "// Entity is a thing."},
		{name: "at sign alone", comment: "// @"},
		{name: "block comment", comment: "/* @Entity */"},
		{name: "spaced directive is text", comment: "// typenode:skip"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &ast.Comment{Text: tc.comment}
			got, ok := ParseComment(c)
			if tc.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}
			require.True(t, ok)
			assert.Same(t, c, got.Comment)
			if diff := cmp.Diff(tc.want, got, cmpopts.IgnoreFields(Annotation{}, "Comment"), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseComment() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	src := `package p

// Order is a purchase.
// @Entity{Table: "orders"}
//
// @Index("created_at")
//typenode:kind aggregate
type Order struct{}
`
	f, err := parser.ParseFile(token.NewFileSet(), "p.go", src, parser.ParseComments)
	require.NoError(t, err)
	doc := f.Decls[0].(*ast.GenDecl).Doc
	require.NotNil(t, doc)

	got := Parse(doc)
	require.Len(t, got, 3)
	assert.Equal(t, "Entity", got[0].Name)
	assert.Equal(t, "Index", got[1].Name)
	assert.Equal(t, "typenode:kind", got[2].Name)
	assert.True(t, got[2].Directive)

	assert.Nil(t, Parse(nil))
}

func TestAnnotationGet(t *testing.T) {
	keyed, ok := ParseLine(`@Entity{Table: "users"}`)
	require.True(t, ok)
	v, ok := keyed.Get("Table")
	assert.True(t, ok)
	assert.Equal(t, "users", v)
	_, ok = keyed.Get("value")
	assert.False(t, ok)

	single, ok := ParseLine(`@Doc("hello")`)
	require.True(t, ok)
	v, ok = single.Get("value")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	multi, ok := ParseLine(`@Pair(1, 2)`)
	require.True(t, ok)
	_, ok = multi.Get("value")
	assert.False(t, ok, "value is only the positional argument when there is exactly one")
}
