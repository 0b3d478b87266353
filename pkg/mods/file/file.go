// Package file gives scripts access to files.
//
//	$f = File{"/tmp/notes.txt"};
//	$f.write("a");
//	$f.append("b");
//	$f.read();   // ab
//	$f.exist();  // 1
//
// Like containers, files are identified by the name of their variable.
package file

import (
	"os"
	"strings"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/parse"
)

var logger = logutil.GetLogger("[file] ")

type files struct {
	ev    *eval.Evaler
	paths map[string]string
}

// Install registers the file operators and methods on ev.
func Install(ev *eval.Evaler) error {
	f := &files{ev, make(map[string]string)}

	assign, _, _ := ev.Operator("=")
	if err := ev.AddOperator("=", f.assign(assign), 100); err != nil {
		return err
	}
	dot, priority, ok := ev.Operator(".")
	if !ok {
		priority = -1
	}
	if err := ev.AddOperator(".", f.dot(dot), priority); err != nil {
		return err
	}

	methods := map[string]func(path string, args []string) string{
		"read":   read,
		"write":  write,
		"append": appendTo,
		"exist":  exist,
	}
	for name, method := range methods {
		prev, _ := ev.Function(name)
		if err := ev.AddFunction(name, f.method(method, prev)); err != nil {
			return err
		}
	}
	return nil
}

func (f *files) assign(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if *right == "File" {
			if op, ok := f.ev.CurrentNode(); ok {
				variable, okL := f.ev.NodeAt(op.ID - 1)
				value, okR := f.ev.NodeAt(op.ID + 1)
				if okL && okR && variable.Kind == parse.Variable && value.Kind == parse.Value {
					f.paths[variable.Text] = strings.Trim(value.Init, `"`)
					logger.Printf("opened %s as %s", f.paths[variable.Text], variable.Text)
					*left = *right
					return *left
				}
			}
		}
		if prev != nil {
			return prev(left, right)
		}
		*left = *right
		return *left
	}
}

func (f *files) dot(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if op, ok := f.ev.CurrentNode(); ok {
			if n, ok := f.ev.NodeAt(op.ID - 1); ok && n.Kind == parse.Variable {
				if _, ok := f.paths[n.Text]; ok {
					return *right
				}
			}
		}
		if prev != nil {
			return prev(left, right)
		}
		return *left + "." + *right
	}
}

func (f *files) method(m func(path string, args []string) string, prev eval.Function) eval.Function {
	return func(args []string) string {
		if path, ok := f.receiver(); ok {
			return m(path, args)
		}
		if prev != nil {
			return prev(args)
		}
		return ""
	}
}

func (f *files) receiver() (string, bool) {
	fn, ok := f.ev.CurrentNode()
	if !ok {
		return "", false
	}
	if dot, ok := f.ev.NodeAt(fn.ID - 1); !ok || dot.Kind != parse.Operator || dot.Text != "." {
		return "", false
	}
	recv, ok := f.ev.NodeAt(fn.ID - 2)
	if !ok || recv.Kind != parse.Variable {
		return "", false
	}
	path, ok := f.paths[recv.Text]
	return path, ok
}

func read(path string, args []string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Println("read:", err)
		return ""
	}
	return string(data)
}

func write(path string, args []string) string {
	if len(args) == 0 {
		return "0"
	}
	if err := os.WriteFile(path, []byte(args[0]), 0o644); err != nil {
		logger.Println("write:", err)
		return "0"
	}
	return "1"
}

func appendTo(path string, args []string) string {
	if len(args) == 0 {
		return "0"
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		logger.Println("append:", err)
		return "0"
	}
	_, err = file.WriteString(args[0])
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Println("append:", err)
		return "0"
	}
	return "1"
}

func exist(path string, args []string) string {
	if _, err := os.Stat(path); err != nil {
		return "0"
	}
	return "1"
}
