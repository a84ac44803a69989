// Package relrect describes rectangle geometry as algebraic expressions over
// named symbols.
//
// Users import this single package for the complete public API: coordinates,
// symbolic rectangles, positioners, and the sheet that hosts named items.
// A rectangle edge can reference other edges ("left + 100") or other objects
// ("sidebar.right"); resolving turns the symbolic form into concrete bounds,
// and moving an object reverse-solves the new bounds back into the symbolic
// form so relationships survive interactive manipulation.
package relrect
