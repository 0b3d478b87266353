package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a script, used for errors that can be
// associated with a part of the script.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Line returns the 1-based line number and the 1-based column (in bytes) of
// the start of the range.
func (c *Context) Line() (line, col int) {
	before := c.Source[:c.From]
	return strings.Count(before, "\n") + 1, len(before) - strings.LastIndexByte(before, '\n')
}

// Describe returns "name:line:col", or an explanation when the range does not
// fit the source.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	line, col := c.Line()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// ShowCompact shows the description of the Context followed by the source
// line containing the culprit, with the culprit highlighted.
func (c *Context) ShowCompact(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Describe() + ": "
	before, culprit, after := c.Source[:c.From], c.Source[c.From:c.To], c.Source[c.To:]
	head := before[strings.LastIndexByte(before, '\n')+1:]
	if i := strings.IndexByte(culprit, '\n'); i != -1 {
		culprit, after = culprit[:i], ""
	}
	if i := strings.IndexByte(after, '\n'); i != -1 {
		after = after[:i]
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	return indent + desc + head + culpritStart + culprit + culpritEnd + after
}

func (c *Context) checkPosition() error {
	switch {
	case c.From == -1:
		return fmt.Errorf("%s, unknown position", c.Name)
	case c.From < 0 || c.To > len(c.Source) || c.From > c.To:
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}
