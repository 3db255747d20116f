// File: lixenwraith/cascade/exprfn.go
package cascade

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// ExprValidator compiles an expr-lang expression into a ValidateFunc.
// The expression is evaluated per write against the environment
// {key, value, config} and must yield a boolean; any other result, or an
// evaluation error, rejects the write.
//
//	validate, _ := cascade.ExprValidator("value >= 0")
func ExprValidator(expression string) (ValidateFunc, error) {
	if expression == "" {
		return nil, fmt.Errorf("validator expression cannot be empty")
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile validator expression %q: %w", expression, err)
	}
	return func(c *Config, key string, value any) bool {
		out, err := expr.Run(program, map[string]any{
			"key":    key,
			"value":  value,
			"config": c,
		})
		if err != nil {
			return false
		}
		ok, isBool := out.(bool)
		return isBool && ok
	}, nil
}

// MustExprValidator is like ExprValidator but panics on a compile error.
// Intended for package-level catalog declarations.
func MustExprValidator(expression string) ValidateFunc {
	v, err := ExprValidator(expression)
	if err != nil {
		panic(fmt.Sprintf("cascade: %v", err))
	}
	return v
}

// ExprTransform compiles an expr-lang expression into a TransformFunc
// evaluated on every read against {key, value, config}. An evaluation
// error leaves the raw value untouched.
//
//	transform, _ := cascade.ExprTransform(`upper(value)`)
func ExprTransform(expression string) (TransformFunc, error) {
	if expression == "" {
		return nil, fmt.Errorf("transform expression cannot be empty")
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transform expression %q: %w", expression, err)
	}
	return func(c *Config, key string, value any) any {
		out, err := expr.Run(program, map[string]any{
			"key":    key,
			"value":  value,
			"config": c,
		})
		if err != nil {
			return value
		}
		return out
	}, nil
}

// MustExprTransform is like ExprTransform but panics on a compile error.
func MustExprTransform(expression string) TransformFunc {
	t, err := ExprTransform(expression)
	if err != nil {
		panic(fmt.Sprintf("cascade: %v", err))
	}
	return t
}
