package store_test

import (
	"path/filepath"
	"testing"

	"src.scenar.sh/pkg/store"
	"src.scenar.sh/pkg/store/storetest"
	"src.scenar.sh/pkg/testutil"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustTempStore(t))
}

func TestVar(t *testing.T) {
	storetest.TestVar(t, store.MustTempStore(t))
}

func TestNewStore_Reopen(t *testing.T) {
	db := filepath.Join(testutil.TempDir(t), "db")
	st, err := store.NewStore(db)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("$a = 1;")
	st.SetVar("a", "1")
	st.Close()

	st, err = store.NewStore(db)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if text, err := st.Cmd(1); text != "$a = 1;" || err != nil {
		t.Errorf("Cmd(1) after reopening => (%q, %v)", text, err)
	}
	if seq, _ := st.NextCmdSeq(); seq != 2 {
		t.Errorf("NextCmdSeq after reopening => %d, want 2", seq)
	}
	if v, err := st.Var("a"); v != "1" || err != nil {
		t.Errorf("Var(a) after reopening => (%q, %v)", v, err)
	}
}
