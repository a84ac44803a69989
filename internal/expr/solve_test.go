package expr

import (
	"errors"
	"math"
	"testing"
)

func TestReverseSolve(t *testing.T) {
	scope := NewMapScope("self", nil).
		BindValue("left", 10).
		BindValue("top", 20)

	type tc struct {
		source string
		symbol string
		target float64
		want   float64
	}

	tests := map[string]tc{
		"bare symbol":        {source: "w", symbol: "w", target: 42, want: 42},
		"symbol plus const":  {source: "w + 5", symbol: "w", target: 42, want: 37},
		"const minus symbol": {source: "100 - w", symbol: "w", target: 30, want: 70},
		"symbol times const": {source: "w * 2", symbol: "w", target: 42, want: 21},
		"symbol over const":  {source: "w / 4", symbol: "w", target: 10, want: 40},
		"negated symbol":     {source: "-w", symbol: "w", target: -7, want: 7},
		"with other symbols": {source: "left + w", symbol: "w", target: 50, want: 40},
		"nested linear":      {source: "(w + 2) * 3", symbol: "w", target: 30, want: 8},
		"qualified context":  {source: "w - top", symbol: "w", target: 0, want: 20},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := mustParse(t, tt.source)
			got, err := ReverseSolve(e, tt.symbol, tt.target, scope)
			if err != nil {
				t.Fatalf("ReverseSolve(%q) error: %v", tt.source, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ReverseSolve(%q) = %g, want %g", tt.source, got, tt.want)
			}

			// Inverse law: substituting the solved value reproduces target.
			check := NewMapScope("check", scope).BindValue(tt.symbol, got)
			v, err := e.Resolve(check)
			if err != nil {
				t.Fatalf("verification Resolve error: %v", err)
			}
			if math.Abs(v-tt.target) > 1e-9 {
				t.Errorf("substituting %g yields %g, want %g", got, v, tt.target)
			}
		})
	}
}

func TestReverseSolve_Unsupported(t *testing.T) {
	scope := NewMapScope("self", nil).BindValue("left", 10)

	tests := map[string]string{
		"zero occurrences":     "left + 5",
		"multiple occurrences": "w + w",
		"nonlinear":            "w * w",
		"symbol in divisor":    "10 / w",
		"inside function":      "max(w, 0)",
		"zero coefficient":     "w * 0",
	}

	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			e := mustParse(t, source)
			_, err := ReverseSolve(e, "w", 5, scope)
			var target *UnsupportedReverseSolveError
			if !errors.As(err, &target) {
				t.Errorf("ReverseSolve(%q) error = %v, want UnsupportedReverseSolveError", source, err)
			}
		})
	}
}

func TestAdjustedToGiveTarget(t *testing.T) {
	scope := NewMapScope("self", nil)
	other := NewMapScope("other", nil).BindValue("right", 200)
	scope.BindObject("other", other)

	type tc struct {
		source     string
		target     float64
		wantString string
	}

	tests := map[string]tc{
		"pure constant": {
			source:     "10",
			target:     42,
			wantString: "42",
		},
		"offset from reference": {
			source:     "other.right + 20",
			target:     260,
			wantString: "other.right + 60",
		},
		"reference without constant gains one": {
			source:     "other.right",
			target:     230,
			wantString: "other.right + 30",
		},
		"constant before reference": {
			source:     "50 + other.right",
			target:     300,
			wantString: "100 + other.right",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := mustParse(t, tt.source)
			adjusted, err := AdjustedToGiveTarget(e, tt.target, scope)
			if err != nil {
				t.Fatalf("AdjustedToGiveTarget(%q) error: %v", tt.source, err)
			}
			if adjusted.String() != tt.wantString {
				t.Errorf("adjusted = %q, want %q", adjusted.String(), tt.wantString)
			}

			got, err := adjusted.Resolve(scope)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if math.Abs(got-tt.target) > 1e-9 {
				t.Errorf("adjusted resolves to %g, want %g", got, tt.target)
			}

			// The original tree is unaffected.
			if e.String() != tt.source {
				t.Errorf("original mutated: %q", e.String())
			}
		})
	}
}

func TestAdjustedToGiveTarget_Idempotent(t *testing.T) {
	scope := NewMapScope("self", nil)
	other := NewMapScope("other", nil).BindValue("right", 200)
	scope.BindObject("other", other)

	e := mustParse(t, "other.right - 50")
	adjusted, err := AdjustedToGiveTarget(e, 120, scope)
	if err != nil {
		t.Fatalf("first adjust error: %v", err)
	}
	again, err := AdjustedToGiveTarget(adjusted, 120, scope)
	if err != nil {
		t.Fatalf("second adjust error: %v", err)
	}
	if !again.Equal(adjusted) {
		t.Errorf("second adjust changed the tree: %q -> %q", adjusted, again)
	}
}

func TestWithRenamedObject(t *testing.T) {
	type tc struct {
		source string
		old    string
		new    string
		want   string
	}

	tests := map[string]tc{
		"object in member access": {
			source: "other.right - 50",
			old:    "other",
			new:    "sidebar",
			want:   "sidebar.right - 50",
		},
		"bare symbol untouched": {
			source: "left + 100",
			old:    "left",
			new:    "nav",
			want:   "left + 100",
		},
		"object and bare symbol share a name": {
			source: "left.right + left",
			old:    "left",
			new:    "nav",
			want:   "nav.right + left",
		},
		"attribute untouched": {
			source: "other.left",
			old:    "left",
			new:    "nav",
			want:   "other.left",
		},
		"synonym does not match object": {
			source: "x.right + 5",
			old:    "left",
			new:    "nav",
			want:   "x.right + 5",
		},
		"deep in expression": {
			source: "max(a.right, b.right) / 2",
			old:    "b",
			new:    "c",
			want:   "max(a.right, c.right) / 2",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := mustParse(t, tt.source)
			got := e.WithRenamedObject(tt.old, tt.new)
			if got.String() != tt.want {
				t.Errorf("WithRenamedObject(%q) = %q, want %q", tt.source, got.String(), tt.want)
			}
			if e.String() != tt.source {
				t.Errorf("original mutated: %q", e.String())
			}
		})
	}
}

func TestWithRenamedSymbol(t *testing.T) {
	self := NewMapScope("self", nil)
	other := NewMapScope("other", nil)
	self.BindObject("other", other)

	type tc struct {
		source string
		old    SymbolID
		new    string
		want   string
	}

	tests := map[string]tc{
		"bare symbol": {
			source: "width + 5",
			old:    SymbolID{Name: "width"},
			new:    "w",
			want:   "w + 5",
		},
		"synonym x matches left": {
			source: "x + 5",
			old:    SymbolID{Name: "left"},
			new:    "start",
			want:   "start + 5",
		},
		"object name in member access": {
			source: "other.right - 50",
			old:    SymbolID{Name: "other"},
			new:    "sidebar",
			want:   "sidebar.right - 50",
		},
		"attribute inside member access": {
			source: "other.width",
			old:    SymbolID{ScopeUID: "other", Name: "width"},
			new:    "w",
			want:   "other.w",
		},
		"scoped mismatch leaves tree alone": {
			source: "width + 5",
			old:    SymbolID{ScopeUID: "elsewhere", Name: "width"},
			new:    "w",
			want:   "width + 5",
		},
		"no match": {
			source: "left + 5",
			old:    SymbolID{Name: "right"},
			new:    "r",
			want:   "left + 5",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := mustParse(t, tt.source)
			got := e.WithRenamedSymbol(tt.old, tt.new, self)
			if got.String() != tt.want {
				t.Errorf("WithRenamedSymbol(%q) = %q, want %q", tt.source, got.String(), tt.want)
			}
			if e.String() != tt.source {
				t.Errorf("original mutated: %q", e.String())
			}
		})
	}
}
