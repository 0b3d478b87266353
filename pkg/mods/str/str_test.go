package str

import (
	"testing"

	"src.scenar.sh/pkg/eval"
	. "src.scenar.sh/pkg/eval/evaltest"
	"src.scenar.sh/pkg/mods/arith"
	"src.scenar.sh/pkg/tt"
)

func TestStr(t *testing.T) {
	TestWithSetup(t, func(ev *eval.Evaler) {
		arith.Install(ev)
		Install(ev)
	},
		That(`contains("abcd", "bc");`).Returns("1"),
		That(`contains("abcd", "x");`).Returns("0"),
		That(`has_prefix("abcd", "ab");`).Returns("1"),
		That(`has_suffix("abcd", "ab");`).Returns("0"),
		That(`equal_fold("ABC", "abc");`).Returns("1"),
		That(`index("abcabc", "c");`).Returns("2"),
		That(`last_index("abcabc", "c");`).Returns("5"),
		That(`index("abc", "x");`).Returns("-1"),
		That(`count("abcabc", "bc");`).Returns("2"),
		That(`to_upper("abc");`).Returns("ABC"),
		That(`trim_space("  a b  ");`).Returns("a b"),
		That(`trim("xxaxx", "x");`).Returns("a"),
		That(`len("héllo");`).Returns("5"),
		That(`replace("a-b-c", "-", "+");`).Returns("a+b+c"),
		That(`repeat("ab", 3);`).Returns("ababab"),
		That(`join(",", "a", "b", "c");`).Returns("a,b,c"),
		That(`substr("héllo", 1, 3);`).Returns("él"),
		That(`$s = "a b"; $s = to_upper($s); $s;`).Returns("A B"),
	)
}

func TestSubstr(t *testing.T) {
	tt.Test(t, tt.Fn("substr", substr), tt.Table{
		tt.Args([]string{"abc", "1"}).Rets("bc"),
		tt.Args([]string{"abc", "x", "2"}).Rets("ab"),
		tt.Args([]string{"abc", "2", "1"}).Rets(""),
		tt.Args([]string{"abc", "0", "10"}).Rets("abc"),
		tt.Args([]string{}).Rets(""),
	})
}

func TestRepeat(t *testing.T) {
	tt.Test(t, tt.Fn("repeat", repeat), tt.Table{
		tt.Args([]string{"a", "2"}).Rets("aa"),
		tt.Args([]string{"a", "-1"}).Rets(""),
		tt.Args([]string{"a"}).Rets(""),
	})
}
