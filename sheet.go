package relrect

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grindlemire/go-relrect/internal/expr"
)

// Sheet is a registry of named geometry items. It is the concrete owner-side
// realization of the positioner boundary: items implement Owner, qualified
// symbols resolve to sibling items, and bounds changes propagate to dependent
// positioners synchronously and depth-first.
//
// A Sheet belongs to a single goroutine; it performs no internal locking.
type Sheet struct {
	items map[string]*Item
	order []string
	log   *zap.Logger
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		items: make(map[string]*Item),
		log:   zap.L().Named("sheet"),
	}
}

// Add creates an item with the given name and applies the rectangle to it.
// An empty name gets a generated unique name. Adding a duplicate name fails.
func (s *Sheet) Add(name string, rect Rectangle) (*Item, error) {
	if name == "" {
		name = uuid.NewString()
	}
	if _, exists := s.items[name]; exists {
		return nil, fmt.Errorf("sheet: item %q already exists", name)
	}

	item := &Item{
		sheet: s,
		name:  name,
		deps:  make(map[string]bool),
	}
	s.items[name] = item
	s.order = append(s.order, name)

	if err := item.SetRectangle(rect); err != nil {
		return item, err
	}
	return item, nil
}

// Item returns the named item, or false.
func (s *Sheet) Item(name string) (*Item, bool) {
	item, ok := s.items[name]
	return item, ok
}

// Items returns all items in insertion order.
func (s *Sheet) Items() []*Item {
	result := make([]*Item, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.items[name])
	}
	return result
}

// Remove detaches and deletes the named item. References to it from other
// items become unresolvable.
func (s *Sheet) Remove(name string) {
	item, ok := s.items[name]
	if !ok {
		return
	}
	if item.positioner != nil {
		item.positioner.Detach()
		item.positioner = nil
	}
	delete(s.items, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Rename changes an item's name and rewrites every qualified reference to it
// in the other items' rectangles, then re-applies them so dependency
// registrations follow the new name.
func (s *Sheet) Rename(oldName, newName string) error {
	item, ok := s.items[oldName]
	if !ok {
		return fmt.Errorf("sheet: no item named %q", oldName)
	}
	if newName == "" || newName == oldName {
		return nil
	}
	if _, exists := s.items[newName]; exists {
		return fmt.Errorf("sheet: item %q already exists", newName)
	}

	delete(s.items, oldName)
	item.name = newName
	s.items[newName] = item
	for i, n := range s.order {
		if n == oldName {
			s.order[i] = newName
			break
		}
	}

	// Only qualified references move to the new name. Bare symbols in other
	// rectangles are their own attributes, even when the renamed item shares
	// an attribute name such as "left".
	for _, other := range s.Items() {
		if other == item {
			continue
		}
		rect := other.rectangle
		rect.RenameObject(oldName, newName)
		if !rect.Equal(other.rectangle) {
			if err := other.SetRectangle(rect); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scope returns a scope rooted at the sheet: it owns no symbols of its own
// but resolves qualified names to item scopes. Hosts use it to evaluate
// free-standing expressions such as "header.right + 10".
func (s *Sheet) Scope() expr.Scope {
	return sheetScope{sheet: s}
}

// boundsChanged re-applies the positioner of every item that registered a
// dependency on the changed item. Propagation is synchronous: an item's new
// bounds are fully settled before any dependent observes them.
func (s *Sheet) boundsChanged(src *Item) {
	for _, name := range s.order {
		item := s.items[name]
		if item == src || item.positioner == nil || !item.deps[src.name] {
			continue
		}
		if err := item.positioner.Apply(); err != nil {
			s.log.Warn("dependent item failed to re-apply",
				zap.String("item", item.name),
				zap.String("changed", src.name),
				zap.Error(err),
			)
		}
	}
}

// Item is one named rectangle owner within a Sheet.
type Item struct {
	sheet      *Sheet
	name       string
	rectangle  Rectangle
	bounds     Rect
	positioner *Positioner
	deps       map[string]bool
}

// Name implements Owner.
func (it *Item) Name() string { return it.name }

// Bounds implements Owner.
func (it *Item) Bounds() Rect { return it.bounds }

// SetBounds implements Owner, notifying dependent items on change.
func (it *Item) SetBounds(bounds Rect) {
	if bounds == it.bounds {
		return
	}
	it.bounds = bounds
	it.sheet.boundsChanged(it)
}

// Positioner implements Owner.
func (it *Item) Positioner() *Positioner { return it.positioner }

// SetPositioner implements Owner.
func (it *Item) SetPositioner(p *Positioner) { it.positioner = p }

// Scope implements Owner: attribute names resolve to the item's current
// bounds as constants, qualified names resolve to sibling items.
func (it *Item) Scope() expr.Scope {
	return itemScope{item: it}
}

// WatchDependencies implements Owner.
func (it *Item) WatchDependencies(objects []string) {
	it.deps = make(map[string]bool, len(objects))
	for _, name := range objects {
		it.deps[name] = true
	}
}

// Rectangle returns the item's symbolic rectangle as last applied or moved.
func (it *Item) Rectangle() Rectangle {
	if it.positioner != nil {
		return it.positioner.Rectangle()
	}
	return it.rectangle
}

// SetRectangle applies a new symbolic rectangle to the item, attaching,
// replacing, or dropping its positioner as the rectangle's dynamic
// classification requires.
func (it *Item) SetRectangle(rect Rectangle) error {
	it.rectangle = rect
	return rect.ApplyToOwner(it)
}

// MoveTo moves the item to absolute bounds. When a positioner is attached the
// move is written back into the symbolic rectangle via reverse solving; a
// static item is reverse-solved directly so its text stays in step.
func (it *Item) MoveTo(bounds Rect) error {
	if it.positioner != nil {
		if err := it.positioner.NotifyBoundsChanged(bounds); err != nil {
			return err
		}
		it.rectangle = it.positioner.Rectangle()
		return nil
	}

	if err := it.rectangle.MoveToAbsolute(bounds.ToRectF(), it.Scope()); err != nil {
		return err
	}
	it.SetBounds(bounds)
	return nil
}

// itemScope resolves symbols against an item's current concrete bounds. It
// reads already-settled state only: resolution sees numbers, never
// half-updated expressions.
type itemScope struct {
	item *Item
}

func (s itemScope) UID() string { return s.item.name }

func (s itemScope) SymbolValue(name string) (expr.Expression, error) {
	b := s.item.bounds
	switch expr.CanonicalSymbol(name) {
	case "left":
		return expr.Constant(float64(b.X)), nil
	case "top":
		return expr.Constant(float64(b.Y)), nil
	case "right":
		return expr.Constant(float64(b.Right())), nil
	case "bottom":
		return expr.Constant(float64(b.Bottom())), nil
	}
	return expr.Expression{}, &expr.UnresolvedSymbolError{Symbol: name}
}

func (s itemScope) ScopeFor(objectName string) (expr.Scope, error) {
	if other, ok := s.item.sheet.items[objectName]; ok {
		return itemScope{item: other}, nil
	}
	return nil, &expr.UnresolvedSymbolError{Symbol: objectName}
}

// sheetScope is the root scope for free-standing expression evaluation.
type sheetScope struct {
	sheet *Sheet
}

func (s sheetScope) UID() string { return "" }

func (s sheetScope) SymbolValue(name string) (expr.Expression, error) {
	return expr.Expression{}, &expr.UnresolvedSymbolError{Symbol: name}
}

func (s sheetScope) ScopeFor(objectName string) (expr.Scope, error) {
	if item, ok := s.sheet.items[objectName]; ok {
		return itemScope{item: item}, nil
	}
	return nil, &expr.UnresolvedSymbolError{Symbol: objectName}
}
