package relrect

import (
	"math"
	"strings"

	"github.com/grindlemire/go-relrect/internal/expr"
)

// Rectangle describes a rectangle as four symbolic edge coordinates. It is a
// value type: copies are independent.
type Rectangle struct {
	Left   Coordinate
	Right  Coordinate
	Top    Coordinate
	Bottom Coordinate
}

// NewRectangle creates a Rectangle from four edge coordinates.
func NewRectangle(left, right, top, bottom Coordinate) Rectangle {
	return Rectangle{Left: left, Right: right, Top: top, Bottom: bottom}
}

// FromRectF creates a Rectangle from a literal rectangle. The right and
// bottom edges are expressed relative to left and top, so resizing by editing
// the left edge keeps the width.
func FromRectF(r RectF) Rectangle {
	return Rectangle{
		Left:   CoordinateFromValue(r.X),
		Right:  NewCoordinate(expr.Add(expr.Symbol("left"), expr.Constant(r.Width))),
		Top:    CoordinateFromValue(r.Y),
		Bottom: NewCoordinate(expr.Add(expr.Symbol("top"), expr.Constant(r.Height))),
	}
}

// ParseRectangle parses four comma-separated expressions in the textual
// order left, top, right, bottom. Anything after the fourth expression is
// ignored, so a rectangle can be read off the front of a longer buffer.
func ParseRectangle(text string) (Rectangle, error) {
	p := expr.NewParser(text)

	left, err := p.ParseChained()
	if err != nil {
		return Rectangle{}, err
	}
	top, err := p.ParseChained()
	if err != nil {
		return Rectangle{}, err
	}
	right, err := p.ParseChained()
	if err != nil {
		return Rectangle{}, err
	}
	bottom, err := p.ParseChained()
	if err != nil {
		return Rectangle{}, err
	}

	return Rectangle{
		Left:   NewCoordinate(left),
		Right:  NewCoordinate(right),
		Top:    NewCoordinate(top),
		Bottom: NewCoordinate(bottom),
	}, nil
}

// String renders the rectangle in its textual order left, top, right, bottom.
// ParseRectangle(r.String()) reproduces a structurally equal rectangle.
func (r Rectangle) String() string {
	var sb strings.Builder
	sb.WriteString(r.Left.String())
	sb.WriteString(", ")
	sb.WriteString(r.Top.String())
	sb.WriteString(", ")
	sb.WriteString(r.Right.String())
	sb.WriteString(", ")
	sb.WriteString(r.Bottom.String())
	return sb.String()
}

// Equal reports structural equality of all four edges.
func (r Rectangle) Equal(other Rectangle) bool {
	return r.Left.Equal(other.Left) &&
		r.Right.Equal(other.Right) &&
		r.Top.Equal(other.Top) &&
		r.Bottom.Equal(other.Bottom)
}

// localScope resolves a rectangle's own attribute names against its own
// edges, so "right" can reference "left" without a qualifier. It is built on
// the stack for the duration of one Resolve call and never persisted.
type localScope struct {
	rect *Rectangle
}

func (s localScope) UID() string { return "" }

func (s localScope) SymbolValue(name string) (expr.Expression, error) {
	switch expr.CanonicalSymbol(name) {
	case "left":
		return s.rect.Left.Expression(), nil
	case "top":
		return s.rect.Top.Expression(), nil
	case "right":
		return s.rect.Right.Expression(), nil
	case "bottom":
		return s.rect.Bottom.Expression(), nil
	}
	return expr.Expression{}, &expr.UnresolvedSymbolError{Symbol: name}
}

func (s localScope) ScopeFor(objectName string) (expr.Scope, error) {
	return nil, &expr.UnresolvedSymbolError{Symbol: objectName}
}

// Resolve evaluates all four edges and returns the concrete rectangle. A nil
// scope resolves the rectangle against itself, the one-shot path for
// non-dynamic rectangles. Width and height are clamped to a minimum of zero.
func (r Rectangle) Resolve(scope expr.Scope) (RectF, error) {
	if scope == nil {
		scope = localScope{rect: &r}
	}

	left, err := r.Left.Resolve(scope)
	if err != nil {
		return RectF{}, err
	}
	right, err := r.Right.Resolve(scope)
	if err != nil {
		return RectF{}, err
	}
	top, err := r.Top.Resolve(scope)
	if err != nil {
		return RectF{}, err
	}
	bottom, err := r.Bottom.Resolve(scope)
	if err != nil {
		return RectF{}, err
	}

	return RectF{
		X:      left,
		Y:      top,
		Width:  math.Max(0, right-left),
		Height: math.Max(0, bottom-top),
	}, nil
}

// MoveToAbsolute reverse-solves each edge so the rectangle resolves to the
// given target. Edges are solved independently, in the fixed order left,
// right, top, bottom.
func (r *Rectangle) MoveToAbsolute(target RectF, scope expr.Scope) error {
	if err := r.Left.MoveToAbsolute(target.X, scope); err != nil {
		return err
	}
	if err := r.Right.MoveToAbsolute(target.Right(), scope); err != nil {
		return err
	}
	if err := r.Top.MoveToAbsolute(target.Y, scope); err != nil {
		return err
	}
	return r.Bottom.MoveToAbsolute(target.Bottom(), scope)
}

// IsDynamic reports whether any edge depends on something other than the
// rectangle's own edges. A dynamic rectangle needs a live Positioner; a
// non-dynamic one can be resolved once and forgotten.
func (r Rectangle) IsDynamic() bool {
	return dependsOnSymbolsOtherThanThis(r.Left.Expression()) ||
		dependsOnSymbolsOtherThanThis(r.Right.Expression()) ||
		dependsOnSymbolsOtherThanThis(r.Top.Expression()) ||
		dependsOnSymbolsOtherThanThis(r.Bottom.Expression())
}

// dependsOnSymbolsOtherThanThis walks an expression looking for anything that
// reaches outside the owning rectangle. Member accesses always do, before
// even inspecting their operands; bare symbols do unless they are one of the
// six canonical self-attribute names.
func dependsOnSymbolsOtherThanThis(e expr.Expression) bool {
	if e.Kind() == expr.KindOperator && e.SymbolOrFunction() == expr.OpMemberAccess {
		return true
	}

	if e.Kind() == expr.KindSymbol {
		switch e.SymbolOrFunction() {
		case "x", "y", "left", "right", "top", "bottom":
			return false
		}
		return true
	}

	for i := 0; i < e.NumInputs(); i++ {
		if dependsOnSymbolsOtherThanThis(e.Input(i)) {
			return true
		}
	}
	return false
}

// RenameSymbol rewrites the matching symbol across all four edges.
func (r *Rectangle) RenameSymbol(old expr.SymbolID, newName string, scope expr.Scope) {
	r.Left = r.Left.RenameSymbol(old, newName, scope)
	r.Right = r.Right.RenameSymbol(old, newName, scope)
	r.Top = r.Top.RenameSymbol(old, newName, scope)
	r.Bottom = r.Bottom.RenameSymbol(old, newName, scope)
}

// RenameObject retargets every qualified reference to the named object across
// all four edges. Bare symbols keep referring to this rectangle's own edges,
// even when the object shares a name with one of them.
func (r *Rectangle) RenameObject(oldName, newName string) {
	r.Left = r.Left.RenameObject(oldName, newName)
	r.Right = r.Right.RenameObject(oldName, newName)
	r.Top = r.Top.RenameObject(oldName, newName)
	r.Bottom = r.Bottom.RenameObject(oldName, newName)
}

// Dependencies returns the names of all objects the rectangle references
// through qualified symbols, without duplicates.
func (r Rectangle) Dependencies() []string {
	var deps []string
	seen := map[string]bool{}
	for _, c := range []Coordinate{r.Left, r.Right, r.Top, r.Bottom} {
		for _, ref := range c.Expression().ObjectRefs() {
			if !seen[ref] {
				seen[ref] = true
				deps = append(deps, ref)
			}
		}
	}
	return deps
}
