package prog_test

import (
	"os"
	"testing"

	"src.scenar.sh/pkg/logutil"
	. "src.scenar.sh/pkg/prog"
	"src.scenar.sh/pkg/prog/progtest"
	"src.scenar.sh/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatScenar = progtest.ThatScenar
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)
	t.Cleanup(func() { logutil.SetOutputFile("") })

	Test(t, testProgram{},
		ThatScenar("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatScenar("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatScenar("-help").
			WritesStdoutContaining("Usage: scenar [flags] [script]"),

		ThatScenar("-log", "debug.log").DoesNothing(),
		ThatScenar("-log", "/a/bad/path/debug.log").
			WritesStderrContaining("no such file or directory"),
	)

	if _, err := os.Stat("debug.log"); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestFlagsReachProgram(t *testing.T) {
	var got Flags
	Test(t, flagsProgram{&got},
		ThatScenar("-c", "-compileonly", "-json", "-norc", "-rc", "a.yaml", "-db", "h.db", "-lsp").
			WritesStdout("code"),
	)
	want := Flags{JSON: true, CodeInArg: true, CompileOnly: true, NoRc: true,
		RC: "a.yaml", LSP: true, DB: "h.db"}
	if got != want {
		t.Errorf("got flags %+v, want %+v", got, want)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatScenar().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatScenar().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatScenar().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatScenar().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatScenar().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatScenar().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatScenar().ExitsWith(0),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, _ *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type flagsProgram struct{ flags *Flags }

func (p flagsProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	*p.flags = *f
	fds[1].WriteString("code")
	return nil
}
