package container

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.scenar.sh/pkg/eval"
	. "src.scenar.sh/pkg/eval/evaltest"
	"src.scenar.sh/pkg/mods/arith"
	"src.scenar.sh/pkg/must"
)

func setup(ev *eval.Evaler) {
	must.OK(arith.Install(ev))
	must.OK(Install(ev))
}

func TestVector(t *testing.T) {
	TestWithSetup(t, setup,
		That("$v = Vector{1, 2, 3}; $v.size();").Returns("3"),
		That("$v = Vector{}; $v.empty();").Returns("1"),
		// Items are evaluated.
		That("$a = 2; $v = Vector{$a * 10, summ(1)}; $v.at(0);").
			WithSetup(func(ev *eval.Evaler) {
				ev.AddFunction("summ", func(args []string) string { return args[0] })
			}).
			Returns("20"),
		That("$v = Vector{1}; $v.push_back(2, 3); $v.at(2);").Returns("3"),
		That("$v = Vector{1, 2}; $v.pop_back(); $v.size();").Returns("1"),
		That("$v = Vector{}; $v.pop_back();").Returns("0"),
		That("$v = Vector{a, c}; $v.insert(1, b); $v.at(1);").Returns("b"),
		That("$v = Vector{a, c}; $v.insert(2, d); $v.at(2);").Returns("d"),
		That("$v = Vector{a, c}; $v.insert(5, d);").Returns("0"),
		That("$v = Vector{a, b, c}; $v.erase(1); $v.at(1);").Returns("c"),
		That("$v = Vector{a, b}; $v.set(0, z); $v.at(0);").Returns("z"),
		That("$v = Vector{a, b}; $v.at(7);").Returns(""),
		That("$v = Vector{a, b}; $v.clear(); $v.size();").Returns("0"),
		// Method results take part in expressions.
		That("$v = Vector{1, 2}; $v.size() * 10;").Returns("20"),
		That("$v = Vector{4, 5}; $n = $v.at(0) + $v.at(1);").Sets("n", "9"),
	)
}

func TestMap(t *testing.T) {
	TestWithSetup(t, setup,
		That("$m = Map{a: 1, b: 1 + 1}; $m.at(b);").Returns("2"),
		That("$m = Map{a: 1}; $m.insert(z, 26); $m.size();").Returns("2"),
		That("$m = Map{a: 1}; $m.erase(a); $m.empty();").Returns("1"),
		That("$m = Map{a: 1}; $m.erase(q);").Returns("0"),
		That("$m = Map{a: 1}; $m.set(a, 5); $m.at(a);").Returns("5"),
		That("$m = Map{a: 1}; $m.set(b, 5);").Returns("0"),
		That("$m = Map{k}; $m.size();").Returns("1"),
	)
}

func TestIteration(t *testing.T) {
	TestWithSetup(t, setup,
		That("$v = Vector{1, 2, 3}; $sum = 0; while ($x : $v) { $sum += $x; } $sum;").Returns("6"),
		That(`$m = Map{b: 2, a: 1}; $s = ""; while ($kv : $m) { $s += $kv; } $s;`).Returns("a\t1b\t2"),
		// Iterating again starts over.
		That("$v = Vector{1, 2}; $n = 0; $i = 0; while ($i < 2) { $i++; while ($x : $v) $n++; } $n;").
			Returns("4"),
		That("$v = Vector{}; $n = 0; while ($x : $v) $n++; $n;").Returns("0"),
		// An inner loop left with break starts over when entered again.
		That(`$v = Vector{10, 20, 30}; $i = 0; $s = ""; while ($i < 2) { $i = $i + 1; while ($x : $v) { $s = $s + $x; break; } } $s;`).
			Returns("20"),
	)
}

func TestIteration_Rerun(t *testing.T) {
	ev := eval.NewEvaler()
	setup(ev)
	code := "$v = Vector{10, 20, 30}; while ($x : $v) { break; } $x;"
	for i := 0; i < 2; i++ {
		if got := ev.Execute(code); got != "10" {
			t.Errorf("run %d returns %q, want %q", i+1, got, "10")
		}
	}
}

func TestChaining(t *testing.T) {
	TestWithSetup(t, setup,
		// Assignments of other values are unaffected.
		That("$a = 5; $a;").Returns("5"),
		That(`$a = "Vector";`).Sets("a", "Vector"),
		// Methods on other values fall back to the previous functions.
		That("size();").
			WithSetup(func(ev *eval.Evaler) {
				// Registered before the container module.
				ev.AddFunction("size", func([]string) string { return "plain" })
				must.OK(Install(ev))
			}).
			Returns("plain"),
		That("size();").Returns(""),
		That("a . b;").Returns("a.b"),
	)
}

func TestSplitItems(t *testing.T) {
	got := SplitItems(`1,f(2,3),"a,b",{x,y}`)
	want := []string{"1", "f(2,3)", `"a,b"`, "{x,y}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitItems (-want +got):\n%s", diff)
	}
	if items := SplitItems(""); items != nil {
		t.Errorf("SplitItems of empty string returns %v", items)
	}
}
