package sys

import (
	"os"
	"testing"

	"src.scenar.sh/pkg/must"
	"src.scenar.sh/pkg/testutil"
)

func TestIsATTY_RegularFile(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("file", "")
	f := must.OK1(os.Open("file"))
	defer f.Close()
	if IsATTY(f) {
		t.Errorf("IsATTY(regular file) -> true, want false")
	}
}
