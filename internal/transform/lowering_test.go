package transform

import (
	"strings"
	"testing"
)

func TestLowerBlockBindingsRewritesDeclarations(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"let x = 1;", "var x = 1;"},
		{"const answer = 42;", "var answer = 42;"},
		{"const {a, b} = obj;", "var {a, b} = obj;"},
		{"let [head] = items;", "var [head] = items;"},
		{"for (let i = 0; i < n; i++) {}", "for (var i = 0; i < n; i++) {}"},
		{"if (ok) { let y = 2; }", "if (ok) { var y = 2; }"},
	}
	for _, tc := range cases {
		if got := lowerBlockBindings(tc.in); got != tc.want {
			t.Fatalf("input %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLowerBlockBindingsLeavesNonDeclarationsAlone(t *testing.T) {
	// 关键字出现在字符串、注释、模板、正则或作为标识符时不得改写。
	cases := []string{
		`var s = "let x = 1;";`,
		`var s = 'const kept';`,
		"// let kept in comment\nfoo();",
		"/* const kept */ foo();",
		"obj.let = 1;",
		"letter = 1;",
		"constant = 2;",
		"var m = {let: 1};",
		"var re = /let x/g;",
		"greet(`hi ${name} let it be`);",
	}
	for _, src := range cases {
		if got := lowerBlockBindings(src); got != src {
			t.Fatalf("input %q changed to %q", src, got)
		}
	}
}

func TestLowerBlockBindingsTemplateInterpolation(t *testing.T) {
	src := "const msg = `total: ${items.length} const`; let n = 0;"
	got := lowerBlockBindings(src)
	want := "var msg = `total: ${items.length} const`; var n = 0;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTransformPreservesStringContent(t *testing.T) {
	tr := newTestTransformer(t)

	out, err := tr.Transform("if (true) { let x = 1; console.log('let me'); }")
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	if !strings.Contains(out, "var x") {
		t.Fatalf("expected block binding lowered to var, got %q", out)
	}
	if !strings.Contains(out, "let me") {
		t.Fatalf("string literal must survive the rewrite, got %q", out)
	}
}
