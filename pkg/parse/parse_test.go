package parse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testConfig = Config{
	Operators:  NewMatcher("=", "+", "-", "*", "++", "<", ">", "==", ".", "::"),
	Functions:  NewMatcher("summ", "size", "elsewhere"),
	Attributes: NewMatcher("const"),
	Macros:     map[string]string{"inc": "$1=$1+1;"},
}

var parseTests = []struct {
	name string
	code string
	want []string
}{
	{
		name: "assignments and arithmetic",
		code: "$a = 5; $b = 2; $a*2 + $b;",
		want: []string{
			"Expression [0 3]", "Variable a", "Operator =", "Value 5",
			"Expression [4 7]", "Variable b", "Operator =", "Value 2",
			"Expression [8 13]", "Variable a", "Operator *", "Value 2", "Operator +", "Variable b",
		},
	},
	{
		name: "longest operator wins",
		code: "$a++ + $b;",
		want: []string{"Expression [0 4]", "Variable a", "Operator ++", "Operator +", "Variable b"},
	},
	{
		name: "function call with arguments",
		code: "summ($a, 2 + 3);",
		want: []string{
			"Expression [0 7]", "Function summ [1 7]",
			"Argument [2 3]", "Variable a",
			"Argument [4 7]", "Value 2", "Operator +", "Value 3",
		},
	},
	{
		name: "nested calls and parentheses",
		code: "summ(summ(1), (2));",
		want: []string{
			"Expression [0 8]", "Function summ [1 8]",
			"Argument [2 5]", "Function summ [3 5]", "Argument [4 5]", "Value 1",
			"Argument [6 8]", "Expression [7 8]", "Value 2",
		},
	},
	{
		name: "call without arguments",
		code: "$v.size();",
		want: []string{"Expression [0 3]", "Variable v", "Operator .", "Function size"},
	},
	{
		name: "while with nested if and break",
		code: "while ($a > 1) { $a = $a - 1; if ($a < 4) { break; } }",
		want: []string{
			"While while [4 16]", "Expression [1 4]", "Variable a", "Operator >", "Value 1",
			"Expression [5 10]", "Variable a", "Operator =", "Variable a", "Operator -", "Value 1",
			"If if [15 16]", "Expression [12 15]", "Variable a", "Operator <", "Value 4",
			"Break break",
		},
	},
	{
		name: "if elseif else chain",
		code: "if ($a) {} elseif ($b) {} else {}",
		want: []string{
			"If if [2 2]", "Expression [1 2]", "Variable a",
			"ElseIf elseif [5 5] chain=0", "Expression [4 5]", "Variable b",
			"Else else chain=0",
		},
	},
	{
		name: "single statement bodies",
		code: "if ($a) $b = 1; else $b = 2;",
		want: []string{
			"If if [2 6]", "Expression [1 2]", "Variable a",
			"Expression [3 6]", "Variable b", "Operator =", "Value 1",
			"Else else [7 11] chain=0",
			"Expression [8 11]", "Variable b", "Operator =", "Value 2",
		},
	},
	{
		name: "keyword shadowed by a longer function",
		code: "elsewhere(1);",
		want: []string{"Expression [0 3]", "Function elsewhere [1 3]", "Argument [2 3]", "Value 1"},
	},
	{
		name: "bare block and continue",
		code: "{ continue }",
		want: []string{"Sequence [0 1]", "Continue continue"},
	},
	{
		name: "labels and goto",
		code: "goto l_end; $a = 1; l_end: $b;",
		want: []string{
			"Goto l_end target=5",
			"Expression [1 4]", "Variable a", "Operator =", "Value 1",
			"Expression [5 6]", "Variable b",
		},
	},
	{
		name: "backward goto",
		code: "l_top: $a; goto l_top;",
		want: []string{"Expression [0 1]", "Variable a", "Goto l_top target=0"},
	},
	{
		name: "label at the end of a block",
		code: "while ($a) { goto l_e; l_e: }",
		want: []string{
			"While while [2 4]", "Expression [1 2]", "Variable a",
			"Goto l_e target=4", "Sequence",
		},
	},
	{
		name: "string literals keep spaces and structural characters",
		code: `$s = "a b; (c)";`,
		want: []string{"Expression [0 3]", "Variable s", "Operator =", "Value a b; (c)"},
	},
	{
		name: "initializers",
		code: "$v = Vector{1, 2}; $t{x};",
		want: []string{
			"Expression [0 3]", "Variable v", "Operator =", "Value Vector init=1,2",
			"Expression [4 5]", "Variable t init=x",
		},
	},
	{
		name: "comments are stripped",
		code: "$a = 1; // $b = 2;\n$c;",
		want: []string{
			"Expression [0 3]", "Variable a", "Operator =", "Value 1",
			"Expression [4 5]", "Variable c",
		},
	},
	{
		name: "macro declared in the script",
		code: "#macro M{$a=$a+$1+$1+$2;} $a=5; #M(3,4);",
		want: []string{
			"Expression [0 3]", "Variable a", "Operator =", "Value 5",
			"Macro M",
			"Expression [5 14]", "Variable a", "Operator =", "Variable a",
			"Operator +", "Value 3", "Operator +", "Value 3", "Operator +", "Value 4",
		},
	},
	{
		name: "host macro inside an expression",
		code: "$b = #inc($a)",
		want: []string{
			"Expression [0 7]", "Variable b", "Operator =", "Variable a", "Operator =", "Variable a",
			"Operator +", "Value 1",
		},
	},
	{
		name: "placeholders without arguments are kept",
		code: "#macro P{$1;} #P;",
		want: []string{"Macro P", "Expression [1 2]", "Variable 1"},
	},
	{
		name: "operator with two characters",
		code: "$a :: Int;",
		want: []string{"Expression [0 3]", "Variable a", "Operator ::", "Value Int"},
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := Parse(Source{Name: "[test]", Code: test.code}, testConfig)
			if err != nil {
				t.Fatalf("Parse(%q) returns error: %v", test.code, err)
			}
			if diff := cmp.Diff(test.want, dump(tree)); diff != "" {
				t.Errorf("Parse(%q) nodes (-want +got):\n%s", test.code, diff)
			}
		})
	}
}

func TestParse_Metadata(t *testing.T) {
	code := "const $a = 1; #macro M{2;} function f { $x = $0; } l_x: $b + f($a);"
	tree, err := Parse(Source{Name: "[test]", Code: code}, testConfig)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tree.Vars); diff != "" {
		t.Errorf("Vars (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[NodeID][]string{1: {"const"}}, tree.Attrs); diff != "" {
		t.Errorf("Attrs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"M": "2;"}, tree.Macros); diff != "" {
		t.Errorf("Macros (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]NodeID{"l_x": 4}, tree.Labels); diff != "" {
		t.Errorf("Labels (-want +got):\n%s", diff)
	}
	if len(tree.Funcs) != 1 || tree.Funcs[0].Name != "f" || tree.Funcs[0].Body.Code != "$x=$0;" {
		t.Errorf("Funcs = %v", tree.Funcs)
	}
	if tree.Funcs[0].Macros["M"] != "2;" || tree.Funcs[0].Macros["inc"] == "" {
		t.Errorf("function does not see macros declared before it: %v", tree.Funcs[0].Macros)
	}
	// Positions refer to the original code.
	if n := tree.Nodes[1]; n.Pos != strings.Index(code, "$a") {
		t.Errorf("Pos of $a = %d, want %d", n.Pos, strings.Index(code, "$a"))
	}
}

func TestParse_DeclareFunc(t *testing.T) {
	var decls []string
	cfg := testConfig
	cfg.DeclareFunc = func(d FuncDecl) error {
		decls = append(decls, d.Name)
		return nil
	}
	tree, err := Parse(Source{Name: "[test]", Code: "function f{} f(1);"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"f"}, decls); diff != "" {
		t.Errorf("declared (-want +got):\n%s", diff)
	}
	if tree.Nodes[1].Kind != Function {
		t.Errorf("call of declared function parsed as %v", tree.Nodes[1].Kind)
	}
	if cfg.Functions.Has("f") {
		t.Errorf("declaring a function modified the configured matcher")
	}

	errDeclare := errors.New("declare error")
	cfg.DeclareFunc = func(FuncDecl) error { return errDeclare }
	if _, err := Parse(Source{Name: "[test]", Code: "function f{}"}, cfg); err != errDeclare {
		t.Errorf("got error %v, want the DeclareFunc error", err)
	}
}

var parseErrorTests = []struct {
	code    string
	wantMsg string
	// Offset of the culprit in code.
	wantPos int
}{
	{"else {}", "else without if", 0},
	{"$a; elseif ($b) {}", "elseif without if", 4},
	{"$a $b;", "should be operator", 3},
	{"foo(1);", "unknown function foo", 0},
	{"summ(1,);", "empty argument", 7},
	{"if () {}", "empty condition", 4},
	{"$a = ();", "empty parentheses", 6},
	{"$ = 1;", "empty variable name", 0},
	{"goto l_nowhere;", "unknown label l_nowhere", 0},
	{"l_a: l_a: $b;", "duplicate label l_a", 5},
	{"#nomacro;", "unknown macro nomacro", 0},
	{"#macro R{#R;} #R;", "too many macro expansions; is macro R recursive?", 14},
	{"$a = 1 }{", "unexpected '}'", 7},
	{"const;", "attribute const not followed by an operand or operator", 5},
	{"while ($a) }{", "missing body", 11},
	{"function if {}", "bad function name if: name is a reserved keyword", 9},
}

func TestParse_Errors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.code, func(t *testing.T) {
			_, err := Parse(Source{Name: "[test]", Code: test.code}, testConfig)
			var parseErr *Error
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse(%q) returns %v, want *Error", test.code, err)
			}
			if parseErr.Message != test.wantMsg {
				t.Errorf("message = %q, want %q", parseErr.Message, test.wantMsg)
			}
			if parseErr.Context.From != test.wantPos {
				t.Errorf("position = %d, want %d", parseErr.Context.From, test.wantPos)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(Source{Name: "[test]", Code: `if ($a { "b`}, testConfig)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want *MalformedError", err)
	}
	want := []string{"unterminated string literal", "unbalanced braces", "unbalanced parentheses"}
	if diff := cmp.Diff(want, malformed.Problems); diff != "" {
		t.Errorf("problems (-want +got):\n%s", diff)
	}
}

func dump(t *Tree) []string {
	lines := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		s := n.Kind.String()
		if n.Text != "" {
			s += " " + n.Text
		}
		if n.BodyEnd != n.ID {
			s += fmt.Sprintf(" [%d %d]", n.CondEnd, n.BodyEnd)
		}
		if n.Chain != NoNode {
			s += fmt.Sprintf(" chain=%d", n.Chain)
		}
		if n.Target != NoNode {
			s += fmt.Sprintf(" target=%d", n.Target)
		}
		if n.Init != "" {
			s += " init=" + n.Init
		}
		lines[i] = s
	}
	return lines
}
