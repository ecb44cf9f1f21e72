// File: expression.go
// Title: Expression Evaluation
// Description: Evaluates the boolean conditions of IF and FOR WHILE lines
//              and the right-hand side of value assignments. Backed by
//              expr-lang, which type-checks against the current bindings.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package expression evaluates arithmetic, comparison and boolean
// expressions over variable bindings.
package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// Evaluator evaluates expressions against a set of bindings
type Evaluator interface {
	// EvaluateBool evaluates a condition. A non-boolean result is an error.
	EvaluateBool(expression string, env map[string]interface{}) (bool, error)
	// EvaluateExpr evaluates an expression to a value
	EvaluateExpr(expression string, env map[string]interface{}) (interface{}, error)
}

// ExprEvaluator implements Evaluator with expr-lang
type ExprEvaluator struct{}

// New returns an expr-lang evaluator
func New() *ExprEvaluator {
	return &ExprEvaluator{}
}

// EvaluateBool implements Evaluator
func (e *ExprEvaluator) EvaluateBool(expression string, env map[string]interface{}) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return false, evalError("expression.EvaluateBool", expression, fmt.Errorf("empty condition"))
	}
	env = nonNil(env)

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, evalError("expression.EvaluateBool", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, evalError("expression.EvaluateBool", expression, err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, evalError("expression.EvaluateBool", expression, fmt.Errorf("result %v is not a boolean", out))
	}
	return result, nil
}

// EvaluateExpr implements Evaluator. A nil result is an error, so that
// callers can treat any value as a successful evaluation.
func (e *ExprEvaluator) EvaluateExpr(expression string, env map[string]interface{}) (interface{}, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, evalError("expression.EvaluateExpr", expression, fmt.Errorf("empty expression"))
	}
	env = nonNil(env)

	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, evalError("expression.EvaluateExpr", expression, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, evalError("expression.EvaluateExpr", expression, err)
	}
	if out == nil {
		return nil, evalError("expression.EvaluateExpr", expression, fmt.Errorf("expression has no value"))
	}
	return out, nil
}

func nonNil(env map[string]interface{}) map[string]interface{} {
	if env == nil {
		return map[string]interface{}{}
	}
	return env
}

func evalError(operation, expression string, cause error) error {
	return mdwerror.Wrap(cause, "invalid expression").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation(operation).
		WithDetail("expression", expression)
}
