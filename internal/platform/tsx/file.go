package tsx

import (
	"sort"
	"strings"
)

// Options configures lexing.
type Options struct {
	// JSX enables JSX element syntax. TypeScript files without the x suffix
	// must leave it off so that type assertions and generics lex as code.
	JSX bool
}

// File is a lexed source file.
type File struct {
	src     string
	lines   []int
	tokens  []Token
	imports []ImportDecl
	roles   []identRole
}

// Position is a 1-based line and column; columns count bytes.
type Position struct {
	Line   int
	Column int
}

// Parse lexes src and indexes its import declarations and identifier roles.
// Errors are *SyntaxError values.
func Parse(src string, opts Options) (*File, error) {
	lines := lineStarts(src)
	tokens, err := lex(src, opts.JSX, lines)
	if err != nil {
		return nil, err
	}
	f := &File{src: src, lines: lines, tokens: tokens}
	f.imports = parseImports(tokens)
	f.roles = classify(tokens, f.imports)
	return f, nil
}

// Position converts a byte offset to a line and column.
func (f *File) Position(offset int) Position {
	line, col := position(f.src, f.lines, offset)
	return Position{Line: line, Column: col}
}

// StringLiterals returns string tokens whose value satisfies match, plus
// template literals without substitutions whose text does.
func (f *File) StringLiterals(match func(value string) bool) []Token {
	var out []Token
	for _, tok := range f.tokens {
		switch tok.Kind {
		case TokString:
			if match(tok.Value) {
				out = append(out, tok)
			}
		case TokTemplate:
			if len(tok.Text) >= 2 && tok.Text[0] == '`' && tok.Text[len(tok.Text)-1] == '`' &&
				!strings.Contains(tok.Text, "${") && match(tok.Text[1:len(tok.Text)-1]) {
				out = append(out, tok)
			}
		}
	}
	return out
}

func lineStarts(src string) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func position(src string, lines []int, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - lines[i] + 1
}
