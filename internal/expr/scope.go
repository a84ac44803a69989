package expr

// Scope maps symbol names to expressions for one object, deferring to a
// parent scope for anything it does not own. Lookups must be pure: resolution
// may invoke them repeatedly during fixed-point loops.
type Scope interface {
	// UID identifies the scope for cycle detection. Two scopes describing the
	// same object must return the same UID.
	UID() string

	// SymbolValue returns the expression bound to a symbol in this scope.
	// A missing binding is an *UnresolvedSymbolError.
	SymbolValue(name string) (Expression, error)

	// ScopeFor returns the scope of a named sub-object, used to resolve the
	// right-hand side of member-access operators.
	ScopeFor(objectName string) (Scope, error)
}

// CanonicalSymbol maps the synonym attribute names onto their canonical
// forms: "x" means "left" and "y" means "top".
func CanonicalSymbol(name string) string {
	switch name {
	case "x":
		return "left"
	case "y":
		return "top"
	}
	return name
}

// MapScope is a Scope backed by explicit maps, with an optional parent
// fallback. It is the building block for lookup chains in tests and hosts
// that do not have their own object model.
type MapScope struct {
	uid     string
	symbols map[string]Expression
	objects map[string]Scope
	parent  Scope
}

// NewMapScope creates an empty MapScope with the given UID and parent.
// A nil parent ends the chain.
func NewMapScope(uid string, parent Scope) *MapScope {
	return &MapScope{
		uid:     uid,
		symbols: make(map[string]Expression),
		objects: make(map[string]Scope),
		parent:  parent,
	}
}

// Bind associates a symbol name with an expression in this scope.
func (s *MapScope) Bind(name string, e Expression) *MapScope {
	s.symbols[name] = e
	return s
}

// BindValue associates a symbol name with a constant value.
func (s *MapScope) BindValue(name string, v float64) *MapScope {
	return s.Bind(name, Constant(v))
}

// BindObject associates an object name with its scope, making
// "name.attribute" references resolvable.
func (s *MapScope) BindObject(name string, sub Scope) *MapScope {
	s.objects[name] = sub
	return s
}

// UID implements Scope.
func (s *MapScope) UID() string { return s.uid }

// SymbolValue implements Scope.
func (s *MapScope) SymbolValue(name string) (Expression, error) {
	if e, ok := s.symbols[name]; ok {
		return e, nil
	}
	if s.parent != nil {
		return s.parent.SymbolValue(name)
	}
	return Expression{}, &UnresolvedSymbolError{Symbol: name}
}

// ScopeFor implements Scope.
func (s *MapScope) ScopeFor(objectName string) (Scope, error) {
	if sub, ok := s.objects[objectName]; ok {
		return sub, nil
	}
	if s.parent != nil {
		return s.parent.ScopeFor(objectName)
	}
	return nil, &UnresolvedSymbolError{Symbol: objectName}
}
