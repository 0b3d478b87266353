package shell

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"src.scenar.sh/pkg/must"
	. "src.scenar.sh/pkg/prog/progtest"
	"src.scenar.sh/pkg/store"
	"src.scenar.sh/pkg/testutil"
)

// Points the config and state directories at temporary directories, so that
// tests never read the rc file or open the database of the user.
func setupCleanHomePaths(t *testing.T) string {
	home := testutil.TempDir(t)
	testutil.Setenv(t, "HOME", home)
	testutil.Setenv(t, "XDG_CONFIG_HOME", filepath.Join(home, "config"))
	testutil.Setenv(t, "XDG_STATE_HOME", filepath.Join(home, "state"))
	return home
}

func TestShell_RCFile(t *testing.T) {
	setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.WriteFile("rc.yaml", `
modules: [arith]
macros: {inc: "$1 += 1;"}
variables: {greeting: hello}
attributes: const
`)
	must.WriteFile("bad.yaml", "nosuchkey: 1\n")
	must.WriteFile("badmod.yaml", "modules: [nosuch]\n")

	Test(t, Program{},
		ThatScenar("-rc", "rc.yaml", "-c", "$n = 1; #inc($n); print($greeting, $n);").
			WritesStdout("hello 2\n"),
		ThatScenar("-rc", "rc.yaml", "-c", "const $a = 1; print($a);").
			WritesStdout("1\n"),
		// Only the listed modules are installed.
		ThatScenar("-rc", "rc.yaml", "-c", "type($a);").
			ExitsWith(2).
			WritesStderrContaining("unknown function type"),
		// Without an rc file all modules are installed.
		ThatScenar("-norc", "-c", "$a :: Int; print(type($a));").
			WritesStdout("Int\n"),
		ThatScenar("-rc", "bad.yaml", "-c", "1;").
			ExitsWith(2).
			WritesStderrContaining("field nosuchkey not found"),
		ThatScenar("-rc", "badmod.yaml", "-c", "1;").
			ExitsWith(2).
			WritesStderrContaining("no such module: nosuch"),
	)
}

func TestShell_DefaultRCFile(t *testing.T) {
	home := setupCleanHomePaths(t)
	must.WriteFile(filepath.Join(home, "config", "scenar", "rc.yaml"),
		"variables: {who: world}\n")

	Test(t, Program{},
		ThatScenar("-c", "print($who);").WritesStdout("world\n"),
		ThatScenar("-norc", "-c", "print($who);").WritesStdout("\n"),
	)
}

func TestShell_Persist(t *testing.T) {
	setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.WriteFile("rc.yaml", "persist: [total]\n")

	Test(t, Program{},
		ThatScenar("-rc", "rc.yaml", "-db", "db", "-c", "$total += 5;"),
		ThatScenar("-rc", "rc.yaml", "-db", "db", "-c", "$total += 5; print($total);").
			WritesStdout("10\n"),
	)

	st, err := store.NewStore("db")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if v, err := st.Var("total"); v != "10" || err != nil {
		t.Errorf("persisted $total = (%q, %v), want (10, nil)", v, err)
	}
	if text, err := st.Cmd(1); text != "$total += 5;" || err != nil {
		t.Errorf("history entry 1 = (%q, %v)", text, err)
	}
}

func TestShell_BadUsage(t *testing.T) {
	setupCleanHomePaths(t)
	Test(t, Program{},
		ThatScenar("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires an argument\nUsage:"),
	)
}

// Runs Interact with the given input and returns what it writes to stdout and
// stderr.
func interact(t *testing.T, cfg *InteractConfig, input string) (string, string) {
	t.Helper()
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, input)
		w0.Close()
	}()
	stdout, stderr := make(chan string, 1), make(chan string, 1)
	go func() { stdout <- string(must.OK1(io.ReadAll(r1))) }()
	go func() { stderr <- string(must.OK1(io.ReadAll(r2))) }()

	Interact([3]*os.File{r0, w1, w2}, cfg)
	r0.Close()
	w1.Close()
	w2.Close()
	return <-stdout, <-stderr
}
