package structure

import (
	"testing"

	"src.scenar.sh/pkg/eval"
	. "src.scenar.sh/pkg/eval/evaltest"
	"src.scenar.sh/pkg/mods/arith"
	"src.scenar.sh/pkg/mods/container"
	"src.scenar.sh/pkg/must"
)

func setup(ev *eval.Evaler) {
	must.OK(arith.Install(ev))
	must.OK(container.Install(ev))
	must.OK(Install(ev))
}

func TestStruct(t *testing.T) {
	TestWithSetup(t, setup,
		That("$s = Struct{a: 1, b: 1 + 1}; $s.b;").Returns("2"),
		That("$s = Struct{}; $s;").Returns("Struct"),
		That("$s = Struct{a: 1}; $s.c;").Returns(""),
		// Field values take part in expressions.
		That("$s = Struct{a: 2, b: 3}; $s.a * $s.b + 1;").Returns("7"),
		// Writing fields.
		That("$s = Struct{a: 1}; $s.a = 5; $s.a;").Returns("5"),
		That("$s = Struct{a: 1}; $s.a = $s.a + 1; $s.a;").Returns("2"),
		That("$s = Struct{a: 1}; $s.c = 3; $s.c + $s.a;").Returns("4"),
		// The variable itself is not changed by writing a field.
		That("$s = Struct{a: 1}; $s.a = 5;").Sets("s", "Struct"),
	)
}

func TestStruct_Chaining(t *testing.T) {
	TestWithSetup(t, setup,
		That("$a = 5; $a;").Returns("5"),
		That("$v = Vector{1, 2}; $v.size();").Returns("2"),
		// Assigning another value makes the variable plain again.
		That("$s = Struct{a: 1}; $s = 7; $s.a;").Returns("7.a"),
		That("$s = Struct{a: 1}; $s = Vector{1}; $s.size();").Returns("1"),
		That("a . b;").Returns("a.b"),
	)
}
