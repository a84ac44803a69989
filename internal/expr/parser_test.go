package expr

import "testing"

func TestParse(t *testing.T) {
	type tc struct {
		source string
		want   Expression
	}

	tests := map[string]tc{
		"number": {
			source: "42",
			want:   Constant(42),
		},
		"negative number folds to constant": {
			source: "-5",
			want:   Constant(-5),
		},
		"symbol": {
			source: "left",
			want:   Symbol("left"),
		},
		"qualified symbol becomes member access": {
			source: "other.right",
			want:   newOperator(OpMemberAccess, Symbol("other"), Symbol("right")),
		},
		"precedence": {
			source: "1 + 2 * 3",
			want:   newOperator("+", Constant(1), newOperator("*", Constant(2), Constant(3))),
		},
		"parens override precedence": {
			source: "(1 + 2) * 3",
			want:   newOperator("*", newOperator("+", Constant(1), Constant(2)), Constant(3)),
		},
		"left associative subtraction": {
			source: "10 - 2 - 3",
			want:   newOperator("-", newOperator("-", Constant(10), Constant(2)), Constant(3)),
		},
		"unary minus on symbol": {
			source: "-x * 2",
			want:   newOperator("*", negate(Symbol("x")), Constant(2)),
		},
		"function call": {
			source: "max(left, 10)",
			want:   Function("max", Symbol("left"), Constant(10)),
		},
		"mixed": {
			source: "parent.right - 50",
			want: newOperator("-",
				newOperator(OpMemberAccess, Symbol("parent"), Symbol("right")),
				Constant(50)),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.source)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.source, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.source, got, tt.want)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := map[string]string{
		"unbalanced open paren":  "(1 + 2",
		"unbalanced close paren": "1 + 2)",
		"empty operand":          "1 + ",
		"leading operator":       "* 2",
		"unknown character":      "1 $ 2",
		"double number":          "1.2.3",
		"empty input":            "",
		"dot without attribute":  "other.",
	}

	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(source)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want syntax error", source)
			}
			var el *ErrorList
			if _, ok := err.(*ErrorList); !ok {
				t.Errorf("Parse(%q) error type %T, want %T", source, err, el)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	sources := []string{
		"10",
		"-5",
		"left + 100",
		"other.right - 50",
		"(a + b) * 2",
		"a - (b - c)",
		"a / (b / c)",
		"-(a + b)",
		"max(left, other.right, 10)",
		"a.b + c.d * 2",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			first, err := Parse(source)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", source, err)
			}
			second, err := Parse(first.String())
			if err != nil {
				t.Fatalf("Parse(%q) (rendered from %q) error: %v", first.String(), source, err)
			}
			if !second.Equal(first) {
				t.Errorf("round trip changed structure: %q -> %q", source, first.String())
			}
		})
	}
}

func TestParser_ParseChained(t *testing.T) {
	p := NewParser("10, 20, left + 5, 40")

	var got []Expression
	for !p.AtEOF() {
		e, err := p.ParseChained()
		if err != nil {
			t.Fatalf("ParseChained error: %v", err)
		}
		got = append(got, e)
	}

	if len(got) != 4 {
		t.Fatalf("parsed %d expressions, want 4", len(got))
	}
	if !got[2].Equal(newOperator("+", Symbol("left"), Constant(5))) {
		t.Errorf("third expression = %s, want left + 5", got[2])
	}
}
