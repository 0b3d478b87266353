// Package re implements regular expression functions.
//
//	re_match(pattern, s)          // "1" or "0"
//	re_find(pattern, s)           // first match, or ""
//	re_find_all(sep, pattern, s)  // all matches joined by sep
//	re_replace(pattern, s, repl)  // repl may refer to groups as $1
//	re_split(sep, pattern, s)     // pieces joined by sep
//	re_quote(s)
//
// An invalid pattern makes a function return "". Compiled patterns are
// cached per Install.
package re

import (
	"regexp"
	"strings"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[re] ")

type module struct {
	cache map[string]*regexp.Regexp
}

// Install registers the functions on ev.
func Install(ev *eval.Evaler) error {
	m := &module{make(map[string]*regexp.Regexp)}
	fns := map[string]eval.Function{
		"re_match":    m.match,
		"re_find":     m.find,
		"re_find_all": m.findAll,
		"re_replace":  m.replace,
		"re_split":    m.split,
		"re_quote":    quote,
	}
	for name, fn := range fns {
		if err := ev.AddFunction(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m *module) pattern(s string) *regexp.Regexp {
	if re, ok := m.cache[s]; ok {
		return re
	}
	re, err := regexp.Compile(s)
	if err != nil {
		logger.Printf("bad pattern %q: %v", s, err)
	}
	m.cache[s] = re
	return re
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (m *module) match(args []string) string {
	re := m.pattern(arg(args, 0))
	if re != nil && re.MatchString(arg(args, 1)) {
		return "1"
	}
	return "0"
}

func (m *module) find(args []string) string {
	re := m.pattern(arg(args, 0))
	if re == nil {
		return ""
	}
	return re.FindString(arg(args, 1))
}

func (m *module) findAll(args []string) string {
	re := m.pattern(arg(args, 1))
	if re == nil {
		return ""
	}
	return strings.Join(re.FindAllString(arg(args, 2), -1), arg(args, 0))
}

func (m *module) replace(args []string) string {
	re := m.pattern(arg(args, 0))
	if re == nil {
		return ""
	}
	return re.ReplaceAllString(arg(args, 1), arg(args, 2))
}

func (m *module) split(args []string) string {
	re := m.pattern(arg(args, 1))
	if re == nil {
		return ""
	}
	return strings.Join(re.Split(arg(args, 2), -1), arg(args, 0))
}

func quote(args []string) string {
	return regexp.QuoteMeta(arg(args, 0))
}
