package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// This type is the interface that the line editor has to satisfy.
type editor interface {
	ReadCode() (string, error)
}

type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadCode() (string, error) {
	fmt.Fprint(ed.out, "scenar> ")
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		// The last line has no line ending.
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}
