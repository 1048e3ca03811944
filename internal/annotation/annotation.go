// Package annotation reads annotation-style markers out of Go doc comments.
//
// Two forms are recognized, one per comment line:
//
//	// @Name
//	// @Name("positional", 1, true)
//	// @pkg.Name{Key: "value", Other: 2}
//	//tool:name arg key=value
//
// The first three are annotations; the last is a directive (no space after
// the slashes, like //go:generate). Text after a complete annotation form is
// ignored.
package annotation

import (
	"go/ast"
	"go/parser"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/podhmo/typenode/internal/utils/astutils"
)

// Annotation is one marker parsed from a comment line.
type Annotation struct {
	Name      string         `json:"name" yaml:"name"`
	Raw       string         `json:"raw" yaml:"raw"` // the line without its comment marker
	Args      []any          `json:"args,omitempty" yaml:"args,omitempty"`
	Values    map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
	Directive bool           `json:"directive,omitempty" yaml:"directive,omitempty"`

	Comment *ast.Comment `json:"-" yaml:"-"`
}

// Get returns the keyed value for key, or the positional argument when key
// is "value" and the annotation has exactly one positional argument.
func (a *Annotation) Get(key string) (any, bool) {
	if v, ok := a.Values[key]; ok {
		return v, true
	}
	if key == "value" && len(a.Args) == 1 {
		return a.Args[0], true
	}
	return nil, false
}

var directivePattern = regexp.MustCompile(`^([a-z0-9]+:[A-Za-z0-9_.\-]+)(?:\s+(.*))?$`)

// Parse returns the annotations found in cg, in source order.
func Parse(cg *ast.CommentGroup) []*Annotation {
	if cg == nil {
		return nil
	}
	var annotations []*Annotation
	for _, c := range cg.List {
		if a, ok := ParseComment(c); ok {
			annotations = append(annotations, a)
		}
	}
	return annotations
}

// ParseComment parses a single comment. Block comments are never annotations.
func ParseComment(c *ast.Comment) (*Annotation, bool) {
	if c == nil || !strings.HasPrefix(c.Text, "//") {
		return nil, false
	}
	body := c.Text[2:]
	if m := directivePattern.FindStringSubmatch(body); m != nil {
		a := parseDirective(m[1], m[2])
		a.Comment = c
		return a, true
	}
	a, ok := ParseLine(strings.TrimSpace(body))
	if !ok {
		return nil, false
	}
	a.Comment = c
	return a, true
}

// ParseLine parses the text of a comment line, marker already removed.
func ParseLine(line string) (*Annotation, bool) {
	if !strings.HasPrefix(line, "@") {
		return nil, false
	}
	rest := line[1:]
	end := 0
	for end < len(rest) && isNameByte(rest[end]) {
		end++
	}
	name := strings.Trim(rest[:end], ".")
	if name == "" {
		return nil, false
	}
	a := &Annotation{Name: name, Raw: line}
	rest = rest[end:]
	if rest == "" || (rest[0] != '(' && rest[0] != '{') {
		return a, true
	}

	closing := matchingClose(rest)
	if closing < 0 {
		slog.Debug("annotation: unbalanced argument list", "annotation", name, "line", line)
		return a, true
	}
	expr, err := parser.ParseExpr(name + rest[:closing+1])
	if err != nil {
		slog.Debug("annotation: cannot parse arguments", "annotation", name, "error", err)
		return a, true
	}
	switch x := expr.(type) {
	case *ast.CallExpr:
		a.Args = make([]any, 0, len(x.Args))
		for _, arg := range x.Args {
			a.Args = append(a.Args, evaluate(arg))
		}
	case *ast.CompositeLit:
		a.Values = make(map[string]any, len(x.Elts))
		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				a.Args = append(a.Args, evaluate(elt))
				continue
			}
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				slog.Debug("annotation: key is not an identifier", "annotation", name, "key", astutils.ExprToTypeName(kv.Key))
				continue
			}
			a.Values[key.Name] = evaluate(kv.Value)
		}
	}
	return a, true
}

func evaluate(expr ast.Expr) any {
	if lit, ok := expr.(*ast.CompositeLit); ok {
		return astutils.EvaluateSliceArg(lit).Value
	}
	r := astutils.EvaluateArg(expr)
	if r.Value == nil && r.IdentifierName != "" {
		return r.String()
	}
	return r.Value
}

func parseDirective(name string, rest string) *Annotation {
	a := &Annotation{Name: name, Raw: strings.TrimSpace(name + " " + rest), Directive: true}
	for _, tok := range splitArgs(rest) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			a.Args = append(a.Args, unquote(tok))
			continue
		}
		if a.Values == nil {
			a.Values = map[string]any{}
		}
		a.Values[key] = unquote(value)
	}
	return a
}

// splitArgs splits on whitespace, keeping double-quoted runs together.
func splitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case (r == ' ' || r == '\t') && !quoted:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

func isNameByte(b byte) bool {
	return b == '_' || b == '.' || b == '-' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// matchingClose returns the index of the bracket closing s[0], skipping
// string and rune literals, or -1.
func matchingClose(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
