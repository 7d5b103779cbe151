package filter

import (
	"errors"
	"testing"
)

func TestCompile_Valid(t *testing.T) {
	rules := []Rule{
		{Name: "foo", Pattern: `\bfoo\b`, ReplaceWith: "deployment"},
		{Name: "bar", Pattern: `\bbar\b`, ReplaceWith: "openshift"},
	}

	compiled, err := Compile(rules)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(compiled) != 2 {
		t.Fatalf("got %d compiled rules, want 2", len(compiled))
	}
	if compiled[0].Name() != "foo" || compiled[1].Name() != "bar" {
		t.Errorf("compiled rules out of order: %q, %q", compiled[0].Name(), compiled[1].Name())
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		wantErr error
	}{
		{
			name:    "empty name",
			rules:   []Rule{{Name: "", Pattern: "x"}},
			wantErr: ErrEmptyName,
		},
		{
			name: "duplicate name",
			rules: []Rule{
				{Name: "a", Pattern: "x"},
				{Name: "a", Pattern: "y"},
			},
			wantErr: ErrDuplicateName,
		},
		{
			name:    "unbalanced paren",
			rules:   []Rule{{Name: "broken", Pattern: "(unclosed"}},
			wantErr: ErrBadPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.rules)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApply_EmptyRuleList(t *testing.T) {
	inputs := []string{"", "unchanged", "foo bar baz", "special $1 ${x}"}
	for _, in := range inputs {
		if got := Apply(nil, in); got != in {
			t.Errorf("Apply(nil, %q) = %q, want input unchanged", in, got)
		}
	}
}

func TestApply_SequentialFeed(t *testing.T) {
	// The second rule must see the first rule's output.
	compiled, err := Compile([]Rule{
		{Name: "first", Pattern: "aaa", ReplaceWith: "bbb"},
		{Name: "second", Pattern: "bbb", ReplaceWith: "ccc"},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if got := Apply(compiled, "aaa"); got != "ccc" {
		t.Errorf("Apply = %q, want %q", got, "ccc")
	}
}

func TestApply_Idempotent(t *testing.T) {
	compiled, err := Compile([]Rule{
		{Name: "foo", Pattern: `\bfoo\b`, ReplaceWith: "deployment"},
		{Name: "bar", Pattern: `\bbar\b`, ReplaceWith: "openshift"},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	once := Apply(compiled, "foo and bar")
	if once != "deployment and openshift" {
		t.Fatalf("first pass = %q, want %q", once, "deployment and openshift")
	}

	twice := Apply(compiled, once)
	if twice != once {
		t.Errorf("second pass = %q, want %q (filtering filtered text must be a no-op)", twice, once)
	}
}

func TestApply_LiteralReplacement(t *testing.T) {
	// Replacement text must not be interpreted as a template.
	compiled, err := Compile([]Rule{
		{Name: "redact", Pattern: `secret-\w+`, ReplaceWith: "$1[REDACTED]"},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got := Apply(compiled, "token secret-abc here")
	want := "token $1[REDACTED] here"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApply_AllNonOverlappingMatches(t *testing.T) {
	compiled, err := Compile([]Rule{
		{Name: "ip", Pattern: `\d+\.\d+\.\d+\.\d+`, ReplaceWith: "0.0.0.0"},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got := Apply(compiled, "from 10.0.0.1 to 192.168.1.5")
	want := "from 0.0.0.0 to 0.0.0.0"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}
