package mods

import (
	"testing"

	"src.scenar.sh/pkg/eval"
	. "src.scenar.sh/pkg/eval/evaltest"
)

func TestAddTo(t *testing.T) {
	TestWithSetup(t, func(ev *eval.Evaler) {
		if err := AddTo(ev); err != nil {
			t.Fatal(err)
		}
	},
		That("$v = Vector{1, 2, 3}; $s = 0; while ($x : $v) { $s += $x; } $s * 2;").Returns("12"),
		That("$a :: Int; type($a);").Returns("Int"),
		That("$p = Struct{x: 1}; $p.x = $p.x + 2; $p.x;").Returns("3"),
		That(`$s = to_upper(re_find("[a-z]+", "12abc")); len($s) + max(1, 2);`).Returns("5"),
		That(`path_base(path_join("a", "b"));`).Returns("b"),
	)
}

func TestInstall(t *testing.T) {
	ev := eval.NewEvaler()
	if err := Install(ev, "container", "arith"); err != nil {
		t.Fatal(err)
	}
	if got := ev.Execute("$v = Vector{1}; $v.size() + 1;"); got != "2" {
		t.Errorf("got %q, want %q", got, "2")
	}
	for _, name := range []string{"type", "len", "abs", "re_find", "path_base"} {
		if _, ok := ev.Function(name); ok {
			t.Errorf("function %s installed without its module being named", name)
		}
	}
	if err := Install(eval.NewEvaler(), "nosuch"); err == nil {
		t.Errorf("Install of unknown module succeeds")
	}
}

func TestInstall_ReportsAllFailures(t *testing.T) {
	ev := eval.NewEvaler()
	err := Install(ev, "zz", "arith", "nosuch")
	want := "multiple errors: no such module: nosuch; no such module: zz"
	if err == nil || err.Error() != want {
		t.Errorf("got error %v, want %q", err, want)
	}
	// Known modules are still installed.
	if got := ev.Execute("1 + 2;"); got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}
