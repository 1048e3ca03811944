// Package plan reads declarative batches of add-if-absent edits and applies
// them to a loaded package.
//
//	[[types]]
//	name = "User"
//	implements = ["fmt.Stringer"]
//	  [[types.fields]]
//	  name = "CreatedAt"
//	  type = "time.Time"
//	  tag_case = "snake"
//	  [[types.methods]]
//	  source = "func (u *User) Key() string { return u.ID }"
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Plan is a list of edits grouped by target type.
type Plan struct {
	Types []TypePlan `toml:"types" yaml:"types" validate:"dive"`
}

// TypePlan lists what a single named type should have.
type TypePlan struct {
	Name       string       `toml:"name" yaml:"name" validate:"required"`
	Implements []string     `toml:"implements" yaml:"implements" validate:"dive,required"`
	Fields     []FieldPlan  `toml:"fields" yaml:"fields" validate:"dive"`
	Methods    []MethodPlan `toml:"methods" yaml:"methods" validate:"dive"`
}

// FieldPlan describes one struct field. Tag is used verbatim when set;
// otherwise TagCase derives a `TagKey:"name"` tag from the field name.
type FieldPlan struct {
	Name     string `toml:"name" yaml:"name" validate:"required_without=Embedded"`
	Type     string `toml:"type" yaml:"type" validate:"required"`
	Tag      string `toml:"tag" yaml:"tag"`
	TagCase  string `toml:"tag_case" yaml:"tag_case" validate:"omitempty,oneof=camel snake kebab"`
	TagKey   string `toml:"tag_key" yaml:"tag_key"`
	Embedded bool   `toml:"embedded" yaml:"embedded"`
}

// MethodPlan is a method given as Go source. The receiver may be omitted.
type MethodPlan struct {
	Source string `toml:"source" yaml:"source" validate:"required"`
}

// Format is the encoding of a plan file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf guesses the format from a file extension.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown plan format for %q (want .toml, .yaml or .yml)", filename)
	}
}

// Load reads and validates the plan file at filename.
func Load(filename string) (*Plan, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", filename, err)
	}
	p, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", filename, err)
	}
	return p, nil
}

// Decode reads a plan in the given format and validates it.
// Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*Plan, error) {
	var p Plan
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&p)
		if err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys in toml: %v", undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported plan format %q", format)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

var validate = validator.New()

// Validate checks the struct constraints of p.
func Validate(p *Plan) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	return nil
}
