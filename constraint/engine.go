package constraint

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/MartiniMaung/loom/weaver"
)

// ErrInvalidExpression indicates a constraint value could not be compiled
// or did not evaluate to a boolean.
var ErrInvalidExpression = errors.New("invalid constraint expression")

// Engine compiles and evaluates CEL constraint expressions against
// patterns. Compiled programs are cached by expression text, so repeated
// rankings with the same constraints pay the compilation cost once.
//
// Engine implements weaver.Filter.
type Engine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewEngine builds the CEL environment with the pattern variables.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("complexity", cel.DoubleType),
		cel.Variable("component_count", cel.IntType),
		cel.Variable("licenses", cel.ListType(cel.StringType)),
		cel.Variable("names", cel.ListType(cel.StringType)),
		cel.Variable("capabilities", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("building constraint environment: %w", err)
	}
	return &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Allow evaluates every string-valued constraint against the pattern and
// reports whether all of them hold. Constraints whose values are not
// strings are scoring hints, not expressions, and are skipped.
func (e *Engine) Allow(ctx context.Context, pattern weaver.Pattern, constraints map[string]any) (bool, error) {
	if len(constraints) == 0 {
		return true, nil
	}

	var vars map[string]any
	for name, value := range constraints {
		expr, ok := value.(string)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if vars == nil {
			vars = patternVars(pattern)
		}
		hold, err := e.evaluate(expr, vars)
		if err != nil {
			return false, fmt.Errorf("constraint %q: %w", name, err)
		}
		if !hold {
			return false, nil
		}
	}
	return true, nil
}

// Compile checks an expression without evaluating it, for early validation
// of intents before ranking.
func (e *Engine) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

func (e *Engine) evaluate(expr string, vars map[string]any) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	hold, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression %q is not boolean", ErrInvalidExpression, expr)
	}
	return hold, nil
}

func (e *Engine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("%w: expression %q yields %s, want bool",
			ErrInvalidExpression, expr, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	e.mu.Lock()
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}

// patternVars flattens a pattern into the variables the environment
// declares.
func patternVars(pattern weaver.Pattern) map[string]any {
	names := make(map[string]struct{}, len(pattern.Components))
	licenses := make([]string, 0, len(pattern.Components))
	capabilities := make([]string, 0, len(pattern.Components))
	ordered := make([]string, 0, len(pattern.Components))
	for _, c := range pattern.Components {
		if _, ok := names[c.Name]; !ok {
			names[c.Name] = struct{}{}
			ordered = append(ordered, c.Name)
			licenses = append(licenses, c.License)
		}
		capabilities = append(capabilities, c.Capability.String())
	}
	return map[string]any{
		"confidence":      pattern.Confidence,
		"complexity":      pattern.Complexity,
		"component_count": int64(len(ordered)),
		"licenses":        licenses,
		"names":           ordered,
		"capabilities":    capabilities,
	}
}
