package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/parse"
)

var logger = logutil.GetLogger("[lsp] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	evaler  *eval.Evaler
	content map[lsp.DocumentURI]string
}

func newServer(ev *eval.Evaler) *server {
	return &server{ev, make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"initialized": noop,
		"shutdown":    noop,
		// Sent by some clients even when the server does not advertise it.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Printf("unknown method %s", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{TriggerCharacters: []string{"$"}},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// Only full syncs are advertised, so the last change has the whole text.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	s.update(ctx, conn, params.TextDocument.URI, last.Text)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	s.content[uri] = content
	diags := diagnostics(s.evaler, uri, content)
	go conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content := s.content[params.TextDocument.URI]
	from, to := wordAt(content, lspPositionToIdx(content, params.Position))
	text := s.describe(content[from:to])
	if text == "" {
		return lsp.Hover{}, nil
	}
	rg := lspRangeFromRange(content, diag.Ranging{From: from, To: to})
	return lsp.Hover{Contents: []lsp.MarkedString{lsp.RawMarkedString(text)}, Range: &rg}, nil
}

// Describes a name for hover.
func (s *server) describe(name string) string {
	switch {
	case name == "":
		return ""
	case parse.IsKeyword(name):
		return "keyword " + name
	}
	if body, ok := s.evaler.Macros()[name]; ok {
		return fmt.Sprintf("macro %s: %s", name, body)
	}
	if _, ok := s.evaler.Function(name); ok {
		return "function " + name
	}
	if _, priority, ok := s.evaler.Operator(name); ok {
		return fmt.Sprintf("operator %s, priority %d", name, priority)
	}
	return ""
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content := s.content[params.TextDocument.URI]
	dot := lspPositionToIdx(content, params.Position)
	from := dot
	for from > 0 && isIdentByte(content[from-1]) {
		from--
	}
	prefix := content[from:dot]
	lspRange := lspRangeFromRange(content, diag.Ranging{From: from, To: dot})

	items := []lsp.CompletionItem{}
	add := func(kind lsp.CompletionItemKind, names []string) {
		for _, name := range names {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			items = append(items, lsp.CompletionItem{
				Label: name,
				Kind:  kind,
				TextEdit: &lsp.TextEdit{
					Range:   lspRange,
					NewText: name,
				},
			})
		}
	}
	if from > 0 && content[from-1] == '$' {
		add(lsp.CIKVariable, variables(s.evaler, content))
		return items, nil
	}
	_, fns, attrs, macros := s.evaler.Names()
	add(lsp.CIKKeyword, parse.Keywords())
	add(lsp.CIKFunction, fns)
	add(lsp.CIKSnippet, macros)
	add(lsp.CIKProperty, attrs)
	return items, nil
}

// Returns the names of the variables of ev and those referenced in content,
// sorted.
func variables(ev *eval.Evaler, content string) []string {
	set := make(map[string]bool)
	for name := range ev.Variables() {
		set[name] = true
	}
	for i := 0; i < len(content); i++ {
		if content[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(content) && isIdentByte(content[j]) {
			j++
		}
		if j > i+1 {
			set[content[i+1:j]] = true
		}
		i = j - 1
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func diagnostics(ev *eval.Evaler, uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	err := ev.Check(parse.Source{Name: string(uri), Code: content})
	if err == nil {
		return []lsp.Diagnostic{}
	}
	// Balance checks and bad declarations carry no position of their own.
	var rg diag.Ranging
	var perr *parse.Error
	msg := err.Error()
	if errors.As(err, &perr) {
		rg = perr.Range()
		msg = perr.Message
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(content, rg),
		Severity: lsp.Error,
		Source:   "parse",
		Message:  msg,
	}}
}

// Returns the range of the name around idx. A name is either a run of
// identifier bytes or a run of operator bytes.
func wordAt(s string, idx int) (int, int) {
	class := func(c byte) int {
		switch {
		case isIdentByte(c):
			return 1
		case c <= ' ' || strings.IndexByte("(){},;#\"$", c) != -1:
			return 0
		default:
			return 2
		}
	}
	var cls int
	switch {
	case idx < len(s) && class(s[idx]) != 0:
		cls = class(s[idx])
	case idx > 0 && class(s[idx-1]) != 0:
		cls = class(s[idx-1])
	default:
		return idx, idx
	}
	from, to := idx, idx
	for from > 0 && class(s[from-1]) == cls {
		from--
	}
	for to < len(s) && class(s[to]) == cls {
		to++
	}
	return from, to
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
// Characters are counted in UTF-16 units.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
