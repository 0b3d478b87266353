package eval

import (
	"math/rand"
	"sort"
	"testing"

	"src.scenar.sh/pkg/parse"
)

func TestSortOps(t *testing.T) {
	for n := 0; n < 30; n++ {
		ops := make([]opRef, n)
		for i := range ops {
			ops[i] = opRef{id: parse.NodeID(i), priority: rand.Intn(4)}
		}
		sortOps(ops)
		ok := sort.SliceIsSorted(ops, func(i, j int) bool {
			if ops[i].priority != ops[j].priority {
				return ops[i].priority < ops[j].priority
			}
			return ops[i].id < ops[j].id
		})
		if !ok {
			t.Errorf("sortOps with %d operators is not stable: %v", n, ops)
		}
	}
}

func TestLinks(t *testing.T) {
	l := newLinks(parse.Range{From: 10, To: 16})
	for id := parse.NodeID(10); id < 16; id++ {
		if l.find(id) != id {
			t.Errorf("find(%d) = %d before any join", id, l.find(id))
		}
	}
	// "a + b * c": * consumes b and c, then + consumes a and *.
	l.join(13, 14)
	l.join(15, 14)
	l.join(10, 11)
	l.join(14, 11)
	for _, id := range []parse.NodeID{10, 11, 13, 14, 15} {
		if root := l.find(id); root != 11 {
			t.Errorf("find(%d) = %d, want 11", id, root)
		}
	}
	if l.find(12) != 12 {
		t.Errorf("find(12) = %d, want 12", l.find(12))
	}
}

func TestParse_Cache(t *testing.T) {
	ev := NewEvaler()
	ev.AddOperator("=", func(l, r *string) string { *l = *r; return *l }, 100)
	src := parse.Source{Name: "[test]", Code: "$a = 1;"}

	if err := ev.Parse(src); err != nil {
		t.Fatal(err)
	}
	tree := ev.tree
	if err := ev.Parse(src); err != nil {
		t.Fatal(err)
	}
	if ev.tree != tree {
		t.Errorf("unchanged script was parsed again")
	}

	ev.AddFunction("f", func([]string) string { return "" })
	if err := ev.Parse(src); err != nil {
		t.Fatal(err)
	}
	if ev.tree == tree {
		t.Errorf("script was not parsed again after a registration")
	}

	tree = ev.tree
	if err := ev.Parse(parse.Source{Name: "[test]", Code: "$a = ;}"}); err == nil {
		t.Fatal("bad script parses")
	}
	if ev.tree != tree || ev.code != src.Code {
		t.Errorf("failed parse replaced the script")
	}
	if err := ev.Parse(src); err != nil || ev.tree != tree {
		t.Errorf("script is parsed again after a failed parse of another script")
	}
}

func TestPlan_Cached(t *testing.T) {
	ev := NewEvaler()
	ev.AddOperator("+", func(l, r *string) string { return *l + *r }, 1)
	ev.AddOperator("*", func(l, r *string) string { return *l + "*" + *r }, 0)
	ev.Execute("a + b * c;")
	if len(ev.plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(ev.plans))
	}
	p := ev.plans[1]
	if len(p.ops) != 2 || ev.tree.Nodes[p.ops[0].id].Text != "*" {
		t.Errorf("plan applies %v", p.ops)
	}
	ev.Run()
	if ev.plans[1] != p {
		t.Errorf("plan was not reused")
	}
	if got := ev.Run(); got != "ab*c" {
		t.Errorf("got %q, want %q", got, "ab*c")
	}
}
