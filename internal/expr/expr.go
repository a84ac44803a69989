// Package expr implements the symbolic expression engine behind relative
// coordinates: a recursive-descent parser, scope-based resolution with cycle
// detection, symbol renaming, and linear reverse solving.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the node type of an Expression.
type Kind int

const (
	// KindConstant is a numeric literal. No inputs.
	KindConstant Kind = iota
	// KindSymbol is a named reference resolved through a Scope. No inputs.
	KindSymbol
	// KindOperator is an arithmetic or member-access operator over its inputs.
	KindOperator
	// KindFunction is a named function call over its argument inputs.
	KindFunction
)

// OpMemberAccess is the operator name for qualified references such as
// "other.right". Member-access nodes always depend on something outside the
// current object.
const OpMemberAccess = "."

// Expression is an immutable algebraic expression tree. The zero value is the
// constant 0. Transformations return new trees; inputs are never mutated.
type Expression struct {
	kind   Kind
	value  float64
	name   string // symbol, operator, or function name
	inputs []Expression
}

// Constant creates a numeric literal expression.
func Constant(v float64) Expression {
	return Expression{kind: KindConstant, value: v}
}

// Symbol creates a named symbol expression.
func Symbol(name string) Expression {
	return Expression{kind: KindSymbol, name: name}
}

// Function creates a function-call expression.
func Function(name string, args ...Expression) Expression {
	return Expression{kind: KindFunction, name: name, inputs: args}
}

// Add returns the sum of two expressions.
func Add(a, b Expression) Expression {
	return newOperator("+", a, b)
}

// Subtract returns the difference of two expressions.
func Subtract(a, b Expression) Expression {
	return newOperator("-", a, b)
}

// newOperator builds an operator node, enforcing arity.
func newOperator(op string, inputs ...Expression) Expression {
	switch op {
	case "+", "*", "/", OpMemberAccess:
		if len(inputs) != 2 {
			panic(fmt.Sprintf("expr: operator %q requires 2 inputs, got %d", op, len(inputs)))
		}
	case "-":
		if len(inputs) != 1 && len(inputs) != 2 {
			panic(fmt.Sprintf("expr: operator %q requires 1 or 2 inputs, got %d", op, len(inputs)))
		}
	default:
		panic(fmt.Sprintf("expr: unknown operator %q", op))
	}
	return Expression{kind: KindOperator, name: op, inputs: inputs}
}

// negate builds a unary minus, folding constants so that "-5" round-trips as
// a single constant node.
func negate(e Expression) Expression {
	if e.kind == KindConstant {
		return Constant(-e.value)
	}
	return Expression{kind: KindOperator, name: "-", inputs: []Expression{e}}
}

// Kind returns the node type.
func (e Expression) Kind() Kind { return e.kind }

// Value returns the numeric value of a constant node.
func (e Expression) Value() float64 { return e.value }

// SymbolOrFunction returns the symbol, operator, or function name.
func (e Expression) SymbolOrFunction() string { return e.name }

// NumInputs returns the number of child expressions.
func (e Expression) NumInputs() int { return len(e.inputs) }

// Input returns the i-th child expression.
func (e Expression) Input(i int) Expression { return e.inputs[i] }

// Equal reports structural equality of two expression trees.
func (e Expression) Equal(other Expression) bool {
	if e.kind != other.kind || e.name != other.name || len(e.inputs) != len(other.inputs) {
		return false
	}
	if e.kind == KindConstant && e.value != other.value {
		return false
	}
	for i := range e.inputs {
		if !e.inputs[i].Equal(other.inputs[i]) {
			return false
		}
	}
	return true
}

// ObjectRefs returns the names of all objects referenced through
// member-access operators, in first-appearance order without duplicates.
func (e Expression) ObjectRefs() []string {
	var refs []string
	seen := map[string]bool{}
	var walk func(Expression)
	walk = func(n Expression) {
		if n.kind == KindOperator && n.name == OpMemberAccess {
			if obj := n.inputs[0]; obj.kind == KindSymbol && !seen[obj.name] {
				seen[obj.name] = true
				refs = append(refs, obj.name)
			}
		}
		for _, in := range n.inputs {
			walk(in)
		}
	}
	walk(e)
	return refs
}

// maxResolveDepth bounds evaluation recursion so that scope chains which
// expand symbols into ever-deeper expressions fail instead of overflowing.
const maxResolveDepth = 128

// symbolKey identifies one symbol within one scope for cycle detection.
type symbolKey struct {
	scopeUID string
	symbol   string
}

// evaluator carries per-resolution state: the set of symbols currently being
// expanded and the recursion depth.
type evaluator struct {
	inProgress map[symbolKey]bool
	depth      int
}

func newEvaluator() *evaluator {
	return &evaluator{inProgress: make(map[symbolKey]bool)}
}

// Resolve evaluates the expression to a number using the given scope to look
// up symbols. Resolution is a pure function of (expression, scope): the same
// inputs always produce the same result.
func (e Expression) Resolve(scope Scope) (float64, error) {
	return e.resolve(scope, newEvaluator())
}

func (e Expression) resolve(scope Scope, ev *evaluator) (float64, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > maxResolveDepth {
		return 0, &CyclicDependencyError{}
	}

	switch e.kind {
	case KindConstant:
		return e.value, nil

	case KindSymbol:
		key := symbolKey{scopeUID: scope.UID(), symbol: e.name}
		if ev.inProgress[key] {
			return 0, &CyclicDependencyError{Symbol: e.name}
		}
		bound, err := scope.SymbolValue(e.name)
		if err != nil {
			return 0, err
		}
		ev.inProgress[key] = true
		defer delete(ev.inProgress, key)
		return bound.resolve(scope, ev)

	case KindOperator:
		return e.resolveOperator(scope, ev)

	case KindFunction:
		return e.resolveFunction(scope, ev)
	}

	return 0, fmt.Errorf("expr: unknown node kind %d", e.kind)
}

func (e Expression) resolveOperator(scope Scope, ev *evaluator) (float64, error) {
	if e.name == OpMemberAccess {
		obj := e.inputs[0]
		if obj.kind != KindSymbol {
			return 0, fmt.Errorf("expr: member access requires an object name")
		}
		sub, err := scope.ScopeFor(obj.name)
		if err != nil {
			return 0, err
		}
		return e.inputs[1].resolve(sub, ev)
	}

	if e.name == "-" && len(e.inputs) == 1 {
		v, err := e.inputs[0].resolve(scope, ev)
		if err != nil {
			return 0, err
		}
		return -v, nil
	}

	lhs, err := e.inputs[0].resolve(scope, ev)
	if err != nil {
		return 0, err
	}
	rhs, err := e.inputs[1].resolve(scope, ev)
	if err != nil {
		return 0, err
	}

	switch e.name {
	case "+":
		return lhs + rhs, nil
	case "-":
		return lhs - rhs, nil
	case "*":
		return lhs * rhs, nil
	case "/":
		if rhs == 0 {
			return 0, &DivisionByZeroError{}
		}
		return lhs / rhs, nil
	}
	return 0, fmt.Errorf("expr: unknown operator %q", e.name)
}

// resolveFunction evaluates the built-in functions. An unknown function name
// is an unresolved symbol: there is no binding for it anywhere in the chain.
func (e Expression) resolveFunction(scope Scope, ev *evaluator) (float64, error) {
	args := make([]float64, len(e.inputs))
	for i, in := range e.inputs {
		v, err := in.resolve(scope, ev)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	switch e.name {
	case "min":
		if len(args) == 0 {
			return 0, fmt.Errorf("expr: min requires at least one argument")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}
		return v, nil
	case "max":
		if len(args) == 0 {
			return 0, fmt.Errorf("expr: max requires at least one argument")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}
		return v, nil
	case "abs":
		if len(args) != 1 {
			return 0, fmt.Errorf("expr: abs requires exactly one argument")
		}
		return math.Abs(args[0]), nil
	case "floor":
		if len(args) != 1 {
			return 0, fmt.Errorf("expr: floor requires exactly one argument")
		}
		return math.Floor(args[0]), nil
	case "ceil":
		if len(args) != 1 {
			return 0, fmt.Errorf("expr: ceil requires exactly one argument")
		}
		return math.Ceil(args[0]), nil
	}
	return 0, &UnresolvedSymbolError{Symbol: e.name}
}

// Operator precedence levels for minimal-parenthesis printing.
const (
	precSum     = 1
	precProduct = 2
	precUnary   = 3
	precAtom    = 4
)

func (e Expression) precedence() int {
	if e.kind != KindOperator {
		return precAtom
	}
	switch e.name {
	case "+":
		return precSum
	case "-":
		if len(e.inputs) == 1 {
			return precUnary
		}
		return precSum
	case "*", "/":
		return precProduct
	case OpMemberAccess:
		return precAtom
	}
	return precAtom
}

// String renders the expression in its textual form with minimal parentheses.
// Parse(e.String()) reproduces a structurally equal tree.
func (e Expression) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e Expression) write(sb *strings.Builder) {
	switch e.kind {
	case KindConstant:
		sb.WriteString(strconv.FormatFloat(e.value, 'g', -1, 64))

	case KindSymbol:
		sb.WriteString(e.name)

	case KindFunction:
		sb.WriteString(e.name)
		sb.WriteByte('(')
		for i, in := range e.inputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.write(sb)
		}
		sb.WriteByte(')')

	case KindOperator:
		e.writeOperator(sb)
	}
}

func (e Expression) writeOperator(sb *strings.Builder) {
	if e.name == OpMemberAccess {
		e.inputs[0].write(sb)
		sb.WriteByte('.')
		e.inputs[1].write(sb)
		return
	}

	if len(e.inputs) == 1 { // unary minus
		sb.WriteByte('-')
		e.writeChild(sb, e.inputs[0], precUnary)
		return
	}

	prec := e.precedence()
	e.writeChild(sb, e.inputs[0], prec)
	sb.WriteByte(' ')
	sb.WriteString(e.name)
	sb.WriteByte(' ')
	// Subtraction and division are left-associative: the right child needs
	// parentheses even at equal precedence.
	rightPrec := prec
	if e.name == "-" || e.name == "/" {
		rightPrec = prec + 1
	}
	e.writeChild(sb, e.inputs[1], rightPrec)
}

func (e Expression) writeChild(sb *strings.Builder, child Expression, minPrec int) {
	if child.precedence() < minPrec {
		sb.WriteByte('(')
		child.write(sb)
		sb.WriteByte(')')
		return
	}
	child.write(sb)
}
