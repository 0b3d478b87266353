package shell

import (
	"testing"

	"src.scenar.sh/pkg/must"
	. "src.scenar.sh/pkg/prog/progtest"
	"src.scenar.sh/pkg/testutil"
)

func TestScript(t *testing.T) {
	setupCleanHomePaths(t)
	testutil.InTempDir(t)
	must.WriteFile("hello.sc", `print("hello");`)
	must.WriteFile("args.sc", `print($0, $1);`)
	must.WriteFile("invalid-utf8.sc", "\xff")

	Test(t, Program{},
		ThatScenar("hello.sc").WritesStdout("hello\n"),
		ThatScenar("-c", `print("hello");`).WritesStdout("hello\n"),
		ThatScenar().WithStdin(`print("hello");`).WritesStdout("hello\n"),

		// Arguments after the script are bound to $0, $1, ...
		ThatScenar("args.sc", "a", "b").WritesStdout("a b\n"),
		ThatScenar("-c", "print($0 + $1);", "2", "3").WritesStdout("5\n"),

		// The value of the script is not printed.
		ThatScenar("-c", "1 + 2;").DoesNothing(),
		ThatScenar("-c", "print(1); exit(); print(2);").WritesStdout("1\n"),

		ThatScenar("invalid-utf8.sc").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatScenar("non-existent.sc").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),

		// parse error
		ThatScenar("-c", "foo(1);").
			ExitsWith(2).
			WritesStderrContaining("Parse error: unknown function foo"),
		// malformed script
		ThatScenar("-c", "if ($a) {").
			ExitsWith(2).
			WritesStderrContaining("malformed script: unbalanced braces"),
		// parse error with -compileonly
		ThatScenar("-compileonly", "-c", "foo(1);").
			ExitsWith(2).
			WritesStderrContaining("Parse error"),
		// parse error with -compileonly -json
		ThatScenar("-compileonly", "-json", "-c", "$a = 1; foo(1);").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","start":8,"end":9,"message":"unknown function foo"}]`+"\n"),
		ThatScenar("-compileonly", "-json", "-c", "if ($a) {").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","start":0,"end":0,"message":"malformed script: unbalanced braces"}]`+"\n"),

		// -compileonly does not run the script
		ThatScenar("-compileonly", "-c", "print(1);").DoesNothing(),
		// -compileonly -json dumps the node table
		ThatScenar("-compileonly", "-json", "-c", "$a;").
			WritesStdoutContaining(`"Kind":"Variable","CondEnd":1,"BodyEnd":1,"Text":"a"`),
	)
}
