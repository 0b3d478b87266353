// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	. "src.scenar.sh/pkg/store/storedefs"
)

var (
	cmds        = []string{"$a = 1;", "$b = 2;", "$a + $b;", "$a = 3;"}
	cmdsWithSeq = []Cmd{
		{Text: cmds[0], Seq: 1}, {Text: cmds[1], Seq: 2},
		{Text: cmds[2], Seq: 3}, {Text: cmds[3], Seq: 4},
	}
)

// TestCmd tests the history functionality of a Store.
func TestCmd(t *testing.T, store Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (1, nil)", startSeq, err)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%q) => (%v, %v), want (%v, nil)", cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	if wantEndSeq := startSeq + len(cmds); endSeq != wantEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() => (%v, %v), want (%v, nil)", endSeq, err, wantEndSeq)
	}

	for i, wantText := range cmds {
		text, err := store.Cmd(i + 1)
		if text != wantText || err != nil {
			t.Errorf("store.Cmd(%v) => (%q, %v), want (%q, nil)", i+1, text, err, wantText)
		}
	}

	got, err := store.CmdsWithSeq(2, 4)
	if diff := cmp.Diff(cmdsWithSeq[1:3], got); diff != "" || err != nil {
		t.Errorf("store.CmdsWithSeq(2, 4) => %v (-want +got):\n%s", err, diff)
	}

	// Prefix searches.
	for _, tc := range []struct {
		name   string
		search func(int, string) (Cmd, error)
		seq    int
		prefix string
		want   Cmd
		err    error
	}{
		{"NextCmd", store.NextCmd, 1, "$a", cmdsWithSeq[0], nil},
		{"NextCmd", store.NextCmd, 2, "$a", cmdsWithSeq[2], nil},
		{"NextCmd", store.NextCmd, 1, "$c", Cmd{}, ErrNoMatchingCmd},
		{"PrevCmd", store.PrevCmd, 4, "$a", cmdsWithSeq[2], nil},
		{"PrevCmd", store.PrevCmd, 100, "$a", cmdsWithSeq[3], nil},
		{"PrevCmd", store.PrevCmd, 1, "", Cmd{}, ErrNoMatchingCmd},
	} {
		cmd, err := tc.search(tc.seq, tc.prefix)
		if cmd != tc.want || err != tc.err {
			t.Errorf("store.%s(%v, %q) => (%v, %v), want (%v, %v)",
				tc.name, tc.seq, tc.prefix, cmd, err, tc.want, tc.err)
		}
	}

	if err := store.DelCmd(1); err != nil {
		t.Errorf("store.DelCmd(1) => %v, want nil", err)
	}
	if _, err := store.Cmd(1); err != ErrNoMatchingCmd {
		t.Errorf("store.Cmd(1) after deletion => %v, want ErrNoMatchingCmd", err)
	}
}

// TestVar tests the persisted variable functionality of a Store.
func TestVar(t *testing.T, store Store) {
	if _, err := store.Var("total"); err != ErrNoVar {
		t.Errorf("store.Var of missing variable => %v, want ErrNoVar", err)
	}
	if err := store.SetVar("total", "42"); err != nil {
		t.Errorf("store.SetVar => %v", err)
	}
	if err := store.SetVar("name", "x y"); err != nil {
		t.Errorf("store.SetVar => %v", err)
	}
	if v, err := store.Var("total"); v != "42" || err != nil {
		t.Errorf("store.Var(total) => (%q, %v), want (42, nil)", v, err)
	}
	vars, err := store.Vars()
	if diff := cmp.Diff(map[string]string{"total": "42", "name": "x y"}, vars); diff != "" || err != nil {
		t.Errorf("store.Vars() => %v (-want +got):\n%s", err, diff)
	}
	if err := store.DelVar("total"); err != nil {
		t.Errorf("store.DelVar => %v", err)
	}
	if _, err := store.Var("total"); err != ErrNoVar {
		t.Errorf("store.Var after deletion => %v, want ErrNoVar", err)
	}
}
