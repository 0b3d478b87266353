package logutil

import (
	"io"
	"strings"
	"testing"

	"src.scenar.sh/pkg/must"
	"src.scenar.sh/pkg/testutil"
)

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")

	var sb strings.Builder
	SetOutput(&sb)
	logger.Println("hello")
	if !strings.HasPrefix(sb.String(), "[test] ") || !strings.HasSuffix(sb.String(), "hello\n") {
		t.Errorf("got log output %q", sb.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	testutil.InTempDir(t)
	logger := GetLogger("[test] ")

	must.OK(SetOutputFile("log"))
	logger.Println("to file")
	must.OK(SetOutputFile(""))

	if content := must.ReadFileString("log"); !strings.HasSuffix(content, "to file\n") {
		t.Errorf("got log file content %q", content)
	}
}

func TestSetOutputFile_Error(t *testing.T) {
	testutil.InTempDir(t)
	if err := SetOutputFile("no/such/dir/log"); err == nil {
		t.Errorf("SetOutputFile in a nonexistent directory returns nil error")
	}
}
