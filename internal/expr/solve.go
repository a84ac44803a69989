package expr

// adjustSymbol is the reserved placeholder substituted for the adjustable
// constant term during a move-to-absolute solve. The lexer can never produce
// '@', so it cannot collide with a user symbol.
const adjustSymbol = "@adjusted"

// ReverseSolve computes the value the given symbol must take for the whole
// expression to resolve to target. Every other symbol is resolved through the
// scope. Only expressions linear in exactly one occurrence of the unknown are
// supported; anything else fails with *UnsupportedReverseSolveError.
func ReverseSolve(e Expression, symbol string, target float64, scope Scope) (float64, error) {
	switch n := countOccurrences(e, symbol); {
	case n == 0:
		return 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "symbol does not occur in the expression"}
	case n > 1:
		return 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "symbol occurs more than once"}
	}

	a, b, err := linearCoefficients(e, symbol, scope, newEvaluator())
	if err != nil {
		return 0, err
	}
	if a == 0 {
		return 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "symbol has a zero coefficient"}
	}
	return (target - b) / a, nil
}

// countOccurrences counts bare symbol nodes matching name. The right-hand
// side of a member access lives in another object's scope and does not count;
// the object name on the left is not a value reference either.
func countOccurrences(e Expression, name string) int {
	switch e.kind {
	case KindSymbol:
		if e.name == name {
			return 1
		}
		return 0
	case KindOperator:
		if e.name == OpMemberAccess {
			return 0
		}
	}
	n := 0
	for _, in := range e.inputs {
		n += countOccurrences(in, name)
	}
	return n
}

// linearCoefficients decomposes e into a*symbol + b, resolving every other
// symbol through the scope. Nonlinear shapes (unknown times unknown, unknown
// in a divisor or inside a function call) are rejected.
func linearCoefficients(e Expression, symbol string, scope Scope, ev *evaluator) (a, b float64, err error) {
	switch e.kind {
	case KindConstant:
		return 0, e.value, nil

	case KindSymbol:
		if e.name == symbol {
			return 1, 0, nil
		}
		v, err := e.resolve(scope, ev)
		return 0, v, err

	case KindFunction:
		for _, in := range e.inputs {
			if countOccurrences(in, symbol) > 0 {
				return 0, 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "symbol occurs inside a function call"}
			}
		}
		v, err := e.resolve(scope, ev)
		return 0, v, err

	case KindOperator:
		if e.name == OpMemberAccess {
			v, err := e.resolve(scope, ev)
			return 0, v, err
		}
		if len(e.inputs) == 1 { // unary minus
			a1, b1, err := linearCoefficients(e.inputs[0], symbol, scope, ev)
			return -a1, -b1, err
		}

		a1, b1, err := linearCoefficients(e.inputs[0], symbol, scope, ev)
		if err != nil {
			return 0, 0, err
		}
		a2, b2, err := linearCoefficients(e.inputs[1], symbol, scope, ev)
		if err != nil {
			return 0, 0, err
		}

		switch e.name {
		case "+":
			return a1 + a2, b1 + b2, nil
		case "-":
			return a1 - a2, b1 - b2, nil
		case "*":
			if a1 != 0 && a2 != 0 {
				return 0, 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "expression is not linear in the symbol"}
			}
			return a1*b2 + a2*b1, b1 * b2, nil
		case "/":
			if a2 != 0 {
				return 0, 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "symbol occurs in a divisor"}
			}
			if b2 == 0 {
				return 0, 0, &DivisionByZeroError{}
			}
			return a1 / b2, b1 / b2, nil
		}
	}
	return 0, 0, &UnsupportedReverseSolveError{Symbol: symbol, Reason: "unsupported expression shape"}
}

// AdjustedToGiveTarget returns a copy of e whose adjustable constant term has
// been re-solved so that the result resolves to target in the given scope.
// The adjustable term is the first constant found outside member accesses and
// function calls; an expression without one gets "+ 0" appended first, so the
// symbolic relationships in the rest of the tree are always preserved.
func AdjustedToGiveTarget(e Expression, target float64, scope Scope) (Expression, error) {
	path, found := findAdjustableConstant(e, nil)
	if !found {
		e = Add(e, Constant(0))
		path = []int{1}
	}

	solved, err := solveAt(e, path, target, scope)
	if _, unsupported := err.(*UnsupportedReverseSolveError); unsupported && found {
		// The constant sits in a position that cannot be solved (for example
		// a zero multiplier). Fall back to an appended offset term.
		e = Add(e, Constant(0))
		solved, err = solveAt(e, []int{1}, target, scope)
	}
	if err != nil {
		return Expression{}, err
	}
	return solved, nil
}

func solveAt(e Expression, path []int, target float64, scope Scope) (Expression, error) {
	withUnknown := replaceAt(e, path, Symbol(adjustSymbol))
	v, err := ReverseSolve(withUnknown, adjustSymbol, target, scope)
	if err != nil {
		return Expression{}, err
	}
	return replaceAt(e, path, Constant(v)), nil
}

// findAdjustableConstant returns the input-index path to the first constant
// node, depth-first left to right, skipping member accesses and function
// calls (their contents reference other objects and must stay intact).
func findAdjustableConstant(e Expression, prefix []int) ([]int, bool) {
	switch e.kind {
	case KindConstant:
		path := make([]int, len(prefix))
		copy(path, prefix)
		return path, true
	case KindSymbol, KindFunction:
		return nil, false
	case KindOperator:
		if e.name == OpMemberAccess {
			return nil, false
		}
		for i, in := range e.inputs {
			if path, ok := findAdjustableConstant(in, append(prefix, i)); ok {
				return path, true
			}
		}
	}
	return nil, false
}

// replaceAt rebuilds the tree with the node at the given input-index path
// replaced. An empty path replaces the whole expression.
func replaceAt(e Expression, path []int, replacement Expression) Expression {
	if len(path) == 0 {
		return replacement
	}
	inputs := make([]Expression, len(e.inputs))
	copy(inputs, e.inputs)
	inputs[path[0]] = replaceAt(inputs[path[0]], path[1:], replacement)
	return Expression{kind: e.kind, value: e.value, name: e.name, inputs: inputs}
}

// SymbolID identifies a symbol for renaming: the name plus the UID of the
// scope it belongs to. An empty ScopeUID matches the symbol in any scope.
type SymbolID struct {
	ScopeUID string
	Name     string
}

// WithRenamedSymbol returns a new tree in which every symbol whose resolved
// identity matches old has been renamed. Attribute synonyms are honored
// ("x" matches "left", "y" matches "top"); member accesses recurse into the
// referenced object's scope, and their object name is renamed when it is the
// match. The receiver is unaffected.
func (e Expression) WithRenamedSymbol(old SymbolID, newName string, scope Scope) Expression {
	switch e.kind {
	case KindConstant:
		return e

	case KindSymbol:
		if matchesSymbol(e.name, old, scope) {
			return Symbol(newName)
		}
		return e

	case KindOperator:
		if e.name == OpMemberAccess {
			obj := e.inputs[0]
			attr := e.inputs[1]
			if sub, err := scope.ScopeFor(obj.name); err == nil {
				attr = attr.WithRenamedSymbol(old, newName, sub)
			}
			if obj.kind == KindSymbol && matchesObject(obj.name, old, scope) {
				obj = Symbol(newName)
			}
			return newOperator(OpMemberAccess, obj, attr)
		}
	}

	inputs := make([]Expression, len(e.inputs))
	for i, in := range e.inputs {
		inputs[i] = in.WithRenamedSymbol(old, newName, scope)
	}
	return Expression{kind: e.kind, value: e.value, name: e.name, inputs: inputs}
}

// WithRenamedObject returns a new tree in which every member access whose
// object is named oldName refers to newName instead. Bare symbols are never
// touched: they are the owner's own attributes, not object references, even
// when the object shares a name with an attribute. Names compare exactly;
// attribute synonyms do not apply to objects.
func (e Expression) WithRenamedObject(oldName, newName string) Expression {
	if e.kind == KindOperator && e.name == OpMemberAccess {
		obj := e.inputs[0]
		if obj.kind == KindSymbol && obj.name == oldName {
			obj = Symbol(newName)
		}
		return newOperator(OpMemberAccess, obj, e.inputs[1])
	}
	if len(e.inputs) == 0 {
		return e
	}

	inputs := make([]Expression, len(e.inputs))
	for i, in := range e.inputs {
		inputs[i] = in.WithRenamedObject(oldName, newName)
	}
	return Expression{kind: e.kind, value: e.value, name: e.name, inputs: inputs}
}

func matchesSymbol(name string, old SymbolID, scope Scope) bool {
	if old.ScopeUID != "" && old.ScopeUID != scope.UID() {
		return false
	}
	return CanonicalSymbol(name) == CanonicalSymbol(old.Name)
}

// matchesObject compares object names exactly: synonyms apply to attributes,
// not to the objects that carry them.
func matchesObject(name string, old SymbolID, scope Scope) bool {
	if old.ScopeUID != "" && old.ScopeUID != scope.UID() {
		return false
	}
	return name == old.Name
}
