package relrect

import "github.com/grindlemire/go-relrect/internal/expr"

// Coordinate is a single scalar geometric quantity described by an algebraic
// expression over named symbols. The zero value is the constant 0.
type Coordinate struct {
	expression expr.Expression
}

// NewCoordinate creates a Coordinate from an expression.
func NewCoordinate(e expr.Expression) Coordinate {
	return Coordinate{expression: e}
}

// CoordinateFromValue creates a Coordinate holding a constant.
func CoordinateFromValue(v float64) Coordinate {
	return Coordinate{expression: expr.Constant(v)}
}

// ParseCoordinate parses a single expression into a Coordinate.
func ParseCoordinate(text string) (Coordinate, error) {
	e, err := expr.Parse(text)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{expression: e}, nil
}

// Expression returns the underlying expression tree.
func (c Coordinate) Expression() expr.Expression {
	return c.expression
}

// Resolve evaluates the coordinate to a number using the given scope.
func (c Coordinate) Resolve(scope expr.Scope) (float64, error) {
	return c.expression.Resolve(scope)
}

// MoveToAbsolute rewrites the stored expression so that it resolves to the
// given value, preserving its symbolic relationships: the expression's free
// constant term is reverse-solved rather than the whole formula discarded.
// Resolving immediately afterwards with the same scope returns exactly value.
func (c *Coordinate) MoveToAbsolute(value float64, scope expr.Scope) error {
	adjusted, err := expr.AdjustedToGiveTarget(c.expression, value, scope)
	if err != nil {
		return err
	}
	c.expression = adjusted
	return nil
}

// RenameSymbol returns a copy with the matching symbol renamed throughout the
// expression.
func (c Coordinate) RenameSymbol(old expr.SymbolID, newName string, scope expr.Scope) Coordinate {
	return Coordinate{expression: c.expression.WithRenamedSymbol(old, newName, scope)}
}

// RenameObject returns a copy with every qualified reference to the named
// object retargeted. Bare symbols are untouched.
func (c Coordinate) RenameObject(oldName, newName string) Coordinate {
	return Coordinate{expression: c.expression.WithRenamedObject(oldName, newName)}
}

// Equal reports structural equality of the underlying expressions.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.expression.Equal(other.expression)
}

// String renders the coordinate in its textual form.
func (c Coordinate) String() string {
	return c.expression.String()
}
