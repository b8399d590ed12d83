package canonical

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/rlch/autocanon"
)

// FilterEnv is the environment a skip expression is evaluated in.
type FilterEnv struct {
	Kind      string `expr:"kind"`
	Query     string `expr:"query"`
	Name      string `expr:"name"`
	Type      string `expr:"argType"`
	Entity    string `expr:"entity"`
	Annotated bool   `expr:"annotated"`
}

// Filter decides which arguments are left out of generation.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a boolean skip expression, e.g.
//
//	name in ["url", "name"] || entity == "tt:picture"
//
// An empty expression yields a nil Filter, which skips nothing.
func CompileFilter(source string) (*Filter, error) {
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source, expr.Env(FilterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}

	return f.source
}

// Skip reports whether the argument should be left out.
func (f *Filter) Skip(kind, query string, arg *autocanon.Argument) (bool, error) {
	if f == nil {
		return false, nil
	}

	env := FilterEnv{
		Kind:      kind,
		Query:     query,
		Name:      arg.Name,
		Type:      arg.Type.String(),
		Entity:    arg.Type.EntityType(),
		Annotated: arg.Canonical != nil,
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating skip expression for %s.%s: %w", query, arg.Name, err)
	}

	skip, _ := out.(bool)

	return skip, nil
}
