// Package cparse parses preprocessed C header text with tree-sitter and lowers
// the concrete syntax tree into the cdecl grammar.
package cparse

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alexaandru/go-sitter-forest/c"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

// Sentinel errors.
var (
	// ErrUnparsable reports text the C grammar could not parse.
	ErrUnparsable = errors.New("unparsable C source")
	errNoRootNode = errors.New("no root node")
)

const nodeError = "ERROR"

// Parser parses preprocessed C text into a cdecl.TranslationUnit.
type Parser struct {
	language *sitter.Language
}

// New creates a Parser for the C grammar.
func New() *Parser {
	return &Parser{language: sitter.NewLanguage(c.GetLanguage())}
}

// Parse parses src and lowers its top-level declarations.
func (p *Parser) Parse(ctx context.Context, src []byte) (*cdecl.TranslationUnit, error) {
	src = stripLineMarkers(src)

	tsParser := sitter.NewParser()
	tsParser.SetLanguage(p.language)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsable, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %w", ErrUnparsable, errNoRootNode)
	}

	if bad := findDescendantByType(root, nodeError); !bad.IsNull() {
		pos := bad.StartPoint()

		return nil, fmt.Errorf("%w: syntax error at line %d, column %d near %q",
			ErrUnparsable, pos.Row+1, pos.Column+1, snippet(bad.Content(src)))
	}

	lw := &lowerer{src: src}

	items, err := lw.topLevel(root)
	if err != nil {
		return nil, err
	}

	return &cdecl.TranslationUnit{Items: items}, nil
}

func findDescendantByType(tsNode sitter.Node, typ string) sitter.Node {
	if tsNode.Type() == typ {
		return tsNode
	}

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)

		found := findDescendantByType(child, typ)
		if !found.IsNull() {
			return found
		}
	}

	return sitter.Node{}
}

// stripLineMarkers blanks "# <n> file" and "#line" directives left by the
// preprocessor. Byte offsets are preserved so positions stay meaningful.
func stripLineMarkers(src []byte) []byte {
	out := bytes.Clone(src)
	start := 0

	for start < len(out) {
		end := bytes.IndexByte(out[start:], '\n')
		if end < 0 {
			end = len(out)
		} else {
			end += start
		}

		if isLineMarker(out[start:end]) {
			for i := start; i < end; i++ {
				out[i] = ' '
			}
		}

		start = end + 1
	}

	return out
}

func isLineMarker(line []byte) bool {
	rest, found := bytes.CutPrefix(bytes.TrimLeft(line, " \t"), []byte("#"))
	if !found {
		return false
	}

	rest = bytes.TrimLeft(rest, " \t")

	return bytes.HasPrefix(rest, []byte("line")) || (len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9')
}

const maxSnippet = 40

func snippet(s string) string {
	if len(s) > maxSnippet {
		return s[:maxSnippet] + "..."
	}

	return s
}
