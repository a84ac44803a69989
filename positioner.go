package relrect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/grindlemire/go-relrect/internal/expr"
)

// Owner is the boundary toward the geometry framework that owns the screen
// rectangle. The owner holds at most one Positioner at a time, exclusively.
type Owner interface {
	// Name identifies the owner for logging and qualified references.
	Name() string

	// Bounds returns the current concrete bounds.
	Bounds() Rect

	// SetBounds applies new concrete bounds. Implementations are expected to
	// notify dependents synchronously before returning.
	SetBounds(bounds Rect)

	// Positioner returns the currently attached positioner, or nil.
	Positioner() *Positioner

	// SetPositioner replaces the attached positioner. nil detaches.
	SetPositioner(p *Positioner)

	// Scope returns a scope bound to the owner's current state: the six
	// attribute names resolve to the current bounds and qualified names
	// resolve to sibling owners.
	Scope() expr.Scope

	// WatchDependencies registers the set of object names whose bounds
	// changes must re-apply this owner's positioner. nil clears the set.
	WatchDependencies(objects []string)
}

// MaxApplyIterations bounds the fixed-point loop in Apply. A rectangle that
// has not settled after this many rounds is self-referential.
const MaxApplyIterations = 4

// CyclicReferenceError reports a positioner whose rectangle never reached a
// fixed point. This is a configuration error: Apply stops deterministically
// after MaxApplyIterations and surfaces this error in every build.
type CyclicReferenceError struct {
	Owner string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("rectangle applied to %q did not reach a fixed point after %d iterations", e.Owner, MaxApplyIterations)
}

// Positioner keeps one owner's bounds in sync with a dynamic Rectangle. It
// holds a private snapshot of the rectangle, captured by copy at attach time,
// so later edits to the original value cannot affect it.
type Positioner struct {
	owner     Owner
	rectangle Rectangle
	detached  bool
	applying  bool
}

func newPositioner(owner Owner, rect Rectangle) *Positioner {
	p := &Positioner{owner: owner, rectangle: rect}
	owner.WatchDependencies(rect.Dependencies())
	return p
}

// Rectangle returns the positioner's current rectangle snapshot.
func (p *Positioner) Rectangle() Rectangle {
	return p.rectangle
}

// Uses reports whether the positioner holds a structurally equal rectangle.
func (p *Positioner) Uses(r Rectangle) bool {
	return p.rectangle.Equal(r)
}

// Detach permanently disables the positioner and clears its dependency
// registrations. A detached positioner never applies again.
func (p *Positioner) Detach() {
	if p.detached {
		return
	}
	p.detached = true
	p.owner.WatchDependencies(nil)
}

// Apply resolves the rectangle against the owner's scope and pushes the
// result until the owner's bounds stop changing. Setting bounds can feed back
// into the resolution (the scope reads the owner's current bounds), so the
// loop runs to a fixed point, bounded by MaxApplyIterations.
//
// Parse and resolution failures propagate immediately. Exceeding the
// iteration cap returns a *CyclicReferenceError after logging it; the bounds
// last applied stay in effect.
func (p *Positioner) Apply() error {
	if p.detached || p.applying {
		return nil
	}
	p.applying = true
	defer func() { p.applying = false }()

	for i := 0; i < MaxApplyIterations; i++ {
		resolved, err := p.rectangle.Resolve(p.owner.Scope())
		if err != nil {
			return err
		}
		newBounds := resolved.SmallestIntegerContainer()
		if newBounds == p.owner.Bounds() {
			return nil
		}
		p.owner.SetBounds(newBounds)
	}

	err := &CyclicReferenceError{Owner: p.owner.Name()}
	zap.L().Warn("positioner stopped before reaching a fixed point",
		zap.String("owner", p.owner.Name()),
		zap.Int("iterations", MaxApplyIterations),
	)
	return err
}

// NotifyBoundsChanged reconciles the symbolic rectangle with bounds that
// changed for a reason other than Apply, such as a user drag: the rectangle
// is reverse-solved against the new bounds, preserving its symbolic
// relationships, and then re-applied.
func (p *Positioner) NotifyBoundsChanged(newBounds Rect) error {
	if p.detached || newBounds == p.owner.Bounds() {
		return nil
	}
	if err := p.rectangle.MoveToAbsolute(newBounds.ToRectF(), p.owner.Scope()); err != nil {
		return err
	}
	return p.Apply()
}

// ApplyToOwner connects the rectangle to an owner. A dynamic rectangle
// attaches a Positioner (replacing any positioner holding a different
// rectangle) and applies it once; a non-dynamic rectangle detaches any
// positioner and sets the bounds one-shot.
func (r Rectangle) ApplyToOwner(owner Owner) error {
	if r.IsDynamic() {
		if current := owner.Positioner(); current != nil && current.Uses(r) {
			return nil
		}
		if old := owner.Positioner(); old != nil {
			old.Detach()
		}
		p := newPositioner(owner, r)
		owner.SetPositioner(p)
		return p.Apply()
	}

	if old := owner.Positioner(); old != nil {
		old.Detach()
	}
	owner.SetPositioner(nil)

	resolved, err := r.Resolve(nil)
	if err != nil {
		return err
	}
	owner.SetBounds(resolved.SmallestIntegerContainer())
	return nil
}
