package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/podhmo/typenode"
	"github.com/podhmo/typenode/internal/config"
	"github.com/podhmo/typenode/internal/loader"
	"github.com/podhmo/typenode/internal/plan"
	"github.com/podhmo/typenode/internal/report"
	"github.com/podhmo/typenode/internal/rewrite"
)

// CLI is the command line of typenode.
type CLI struct {
	config.Config `embed:""`

	Fields     FieldsCmd     `cmd:"" help:"List the fields of a struct type."`
	Methods    MethodsCmd    `cmd:"" help:"Find methods of a type by name."`
	Annotation AnnotationCmd `cmd:"" help:"Find annotations on a type by name."`
	Implements ImplementsCmd `cmd:"" help:"Check whether a type is or implements an interface."`
	Extends    ExtendsCmd    `cmd:"" help:"Check whether a type is or embeds another type."`
	Apply      ApplyCmd      `cmd:"" help:"Apply a plan of add-if-absent edits."`
}

// Env is passed to every subcommand.
type Env struct {
	Ctx    context.Context
	Config *config.Config
	Stdout io.Writer
}

func (e *Env) load() (*typenode.Package, error) {
	return loader.LoadDir(e.Ctx, e.Config.LoaderConfig())
}

func (e *Env) lookup(name string) (*typenode.TypeNode, error) {
	pkg, err := e.load()
	if err != nil {
		return nil, err
	}
	return pkg.Lookup(name)
}

func (e *Env) encode(v any) error {
	return report.Encode(e.Stdout, e.Config.OutputFormat(), v)
}

type FieldsCmd struct {
	Type string `arg:"" help:"Name of the struct type."`
	All  bool   `help:"Include embedded and blank fields."`
}

func (c *FieldsCmd) Run(env *Env) error {
	n, err := env.lookup(c.Type)
	if err != nil {
		return err
	}
	if !n.IsStruct() {
		return fmt.Errorf("%s: %w", c.Type, typenode.ErrNotStruct)
	}
	fields := typenode.InstanceFields(n)
	if c.All {
		fields = typenode.Fields(n)
	}
	return env.encode(report.Fields(n, fields))
}

type MethodsCmd struct {
	Type string `arg:"" help:"Name of the type."`
	Name string `arg:"" help:"Method name."`
	All  bool   `help:"Include every promoted method of that name, not only the first."`
}

func (c *MethodsCmd) Run(env *Env) error {
	n, err := env.lookup(c.Type)
	if err != nil {
		return err
	}
	var methods []*typenode.Method
	if c.All {
		methods = typenode.FindAllMethodsByName(n, c.Name)
	} else if m := typenode.FindMethodByName(n, c.Name); m != nil {
		methods = append(methods, m)
	}
	return env.encode(report.Methods(n, methods))
}

type AnnotationCmd struct {
	Type string `arg:"" help:"Name of the type."`
	Name string `arg:"" help:"Annotation name, with or without the leading @."`
}

func (c *AnnotationCmd) Run(env *Env) error {
	n, err := env.lookup(c.Type)
	if err != nil {
		return err
	}
	return env.encode(report.Annotations(n, c.Name))
}

type ImplementsCmd struct {
	Type   string `arg:"" help:"Name of the type."`
	Target string `arg:"" help:"Interface name, e.g. Reader, io.Reader or example.com/pkg.Reader."`
}

func (c *ImplementsCmd) Run(env *Env) error {
	n, err := env.lookup(c.Type)
	if err != nil {
		return err
	}
	return env.encode(report.RelationReport{
		Type:     c.Type,
		Relation: "implements",
		Target:   c.Target,
		Result:   typenode.IsOrImplementsName(n, c.Target),
	})
}

type ExtendsCmd struct {
	Type   string `arg:"" help:"Name of the type."`
	Target string `arg:"" help:"Embedded type name, e.g. Base or io.Reader."`
}

func (c *ExtendsCmd) Run(env *Env) error {
	n, err := env.lookup(c.Type)
	if err != nil {
		return err
	}
	return env.encode(report.RelationReport{
		Type:     c.Type,
		Relation: "extends",
		Target:   c.Target,
		Result:   typenode.IsOrExtendsName(n, c.Target),
	})
}

type ApplyCmd struct {
	Plan  string `help:"Plan file (.toml, .yaml or .yml)." required:"" type:"existingfile"`
	Write bool   `help:"Write the changes back to the files." xor:"mode"`
	Diff  bool   `help:"Print a unified diff instead of the report." xor:"mode"`
}

func (c *ApplyCmd) Run(env *Env) error {
	p, err := plan.Load(c.Plan)
	if err != nil {
		return err
	}
	pkg, err := env.load()
	if err != nil {
		return err
	}
	result, err := plan.Apply(pkg, p)
	if err != nil {
		return err
	}
	changes, err := rewrite.Changes(pkg)
	if err != nil {
		return err
	}
	slog.DebugContext(env.Ctx, "plan applied", "plan", c.Plan, "added", result.Added(), "files", len(changes))

	switch {
	case c.Diff:
		diff, err := rewrite.Diff(changes)
		if err != nil {
			return err
		}
		_, err = io.WriteString(env.Stdout, diff)
		return err
	case c.Write:
		if err := rewrite.Write(changes); err != nil {
			return err
		}
	}
	return env.encode(result)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("typenode"),
		kong.Description("Inspect and extend Go type declarations."),
		kong.UsageOnError(),
	}, options...)
	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cli.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	slog.SetDefault(slog.New(zapslog.NewHandler(logger.Core())))

	return kctx.Run(&Env{Ctx: ctx, Config: &cli.Config, Stdout: stdout})
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("Error running typenode", "error", err)
		os.Exit(1)
	}
}
