package tsx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type frameKind int

const (
	frameCode frameKind = iota
	frameTemplate
	frameJSXTag
	frameJSXChildren
)

type frame struct {
	kind frameKind
	// code frames
	depth   int
	tmpl    bool
	jsxExpr bool
	// template frames
	chunkStart int
	// jsx tag frames
	named   bool
	closing bool
}

type lexer struct {
	src    string
	pos    int
	jsx    bool
	tokens []Token
	frames []frame
	err    *SyntaxError
	lines  []int
	// parens records, per open "(", whether it starts the header of
	// if/while/for/with. A "/" after such a header's ")" starts a regex.
	parens     []bool
	controlEnd int
}

// puncts is ordered longest first so the scan is greedy.
var puncts = []string{
	">>>=", "...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--", "+=", "-=",
	"*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/", "%",
	"&", "|", "^", "!", "~", "?", ":", "=", ".", "@", "#",
}

func lex(src string, jsx bool, lines []int) ([]Token, error) {
	l := &lexer{src: src, jsx: jsx, lines: lines, controlEnd: -1}
	l.frames = []frame{{kind: frameCode}}
	l.skipHashbang()
	for l.err == nil {
		l.skipTrivia()
		if l.err != nil {
			break
		}
		if l.pos >= len(l.src) {
			break
		}
		switch l.top().kind {
		case frameCode:
			l.stepCode()
		case frameTemplate:
			l.stepTemplate()
		case frameJSXTag:
			l.stepJSXTag()
		case frameJSXChildren:
			l.stepJSXChildren()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	if len(l.frames) > 1 {
		return nil, l.fail(len(l.src), "unexpected end of input inside "+l.top().describe())
	}
	if depth := l.frames[0].depth; depth > 0 {
		return nil, l.fail(len(l.src), "unexpected end of input: unclosed {")
	}
	return l.tokens, nil
}

func (f frame) describe() string {
	switch f.kind {
	case frameTemplate:
		return "template literal"
	case frameJSXTag:
		return "JSX tag"
	case frameJSXChildren:
		return "JSX element"
	default:
		if f.tmpl {
			return "template substitution"
		}
		if f.jsxExpr {
			return "JSX expression"
		}
		return "block"
	}
}

func (l *lexer) top() *frame { return &l.frames[len(l.frames)-1] }

func (l *lexer) push(f frame) { l.frames = append(l.frames, f) }

func (l *lexer) pop() { l.frames = l.frames[:len(l.frames)-1] }

func (l *lexer) prev() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *lexer) emit(kind TokenKind, start int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: l.src[start:l.pos], Start: start, End: l.pos})
}

func (l *lexer) fail(offset int, msg string) *SyntaxError {
	line, col := position(l.src, l.lines, offset)
	l.err = &SyntaxError{Offset: offset, Line: line, Column: col, Msg: msg}
	return l.err
}

func (l *lexer) skipHashbang() {
	if strings.HasPrefix(l.src, "#!") {
		if i := strings.IndexByte(l.src, '\n'); i >= 0 {
			l.pos = i
		} else {
			l.pos = len(l.src)
		}
	}
}

// skipTrivia skips whitespace and comments. JSX children keep theirs as text.
func (l *lexer) skipTrivia() {
	if l.top().kind == frameJSXChildren || l.top().kind == frameTemplate {
		return
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += end
			}
		case c == '/' && l.peek(1) == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.fail(l.pos, "unterminated comment")
				return
			}
			l.pos += end + 4
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if !unicode.IsSpace(r) && r != '\uFEFF' {
				return
			}
			l.pos += size
		default:
			return
		}
	}
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) stepCode() {
	f := l.top()
	start := l.pos
	c := l.src[l.pos]
	switch {
	case isIdentStartAt(l.src, l.pos):
		l.pos = scanIdent(l.src, l.pos)
		l.emit(TokIdent, start)
	case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
		l.scanNumber()
		l.emit(TokNumber, start)
	case c == '"' || c == '\'':
		l.scanString(c, true)
	case c == '`':
		l.pos++
		l.push(frame{kind: frameTemplate, chunkStart: start})
	case c == '/' && (exprAllowedAfter(l.prev()) || l.controlEnd == len(l.tokens)-1):
		l.scanRegex()
	case c == '<' && l.jsx && exprAllowedAfter(l.prev()) && !l.typeAliasValue() && l.looksLikeJSX():
		l.pos++
		l.emit(TokJSXPunct, start)
		l.push(frame{kind: frameJSXTag})
	case c == '{':
		f.depth++
		l.pos++
		l.emit(TokPunct, start)
	case c == '}':
		switch {
		case f.depth > 0:
			f.depth--
			l.pos++
			l.emit(TokPunct, start)
		case f.tmpl:
			l.pos++
			l.pop()
			l.top().chunkStart = start
		case f.jsxExpr:
			l.pos++
			l.emit(TokJSXExprClose, start)
			l.pop()
		default:
			l.fail(start, "unexpected }")
		}
	default:
		for _, p := range puncts {
			if strings.HasPrefix(l.src[l.pos:], p) {
				l.pos += len(p)
				switch p {
				case "(":
					l.parens = append(l.parens, l.opensControlHeader())
				case ")":
					if n := len(l.parens); n > 0 {
						if l.parens[n-1] {
							l.controlEnd = len(l.tokens)
						}
						l.parens = l.parens[:n-1]
					}
				}
				l.emit(TokPunct, start)
				return
			}
		}
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		l.fail(start, "unexpected character "+quoteRune(r))
	}
}

func (l *lexer) stepTemplate() {
	f := l.top()
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '`':
			l.pos++
			l.emit(TokTemplate, f.chunkStart)
			l.pop()
			return
		case '$':
			if l.peek(1) == '{' {
				l.pos += 2
				l.emit(TokTemplate, f.chunkStart)
				l.push(frame{kind: frameCode, tmpl: true})
				return
			}
			l.pos++
		default:
			l.pos++
		}
	}
	l.fail(f.chunkStart, "unterminated template literal")
}

func (l *lexer) stepJSXTag() {
	f := l.top()
	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '/' && !f.named && !f.closing:
		// "</" opens a closing tag, including the fragment closer "</>".
		l.pos++
		l.emit(TokJSXPunct, start)
		f.closing = true
	case c == '/' && l.peek(1) == '>':
		if f.closing {
			l.fail(start, "unexpected /> in closing tag")
			return
		}
		l.pos += 2
		l.emit(TokJSXPunct, start)
		l.pop()
	case c == '>':
		l.pos++
		l.emit(TokJSXPunct, start)
		if !f.closing {
			*f = frame{kind: frameJSXChildren}
			return
		}
		l.pop()
		if l.top().kind != frameJSXChildren {
			l.fail(start, "closing tag without matching element")
			return
		}
		l.pop()
	case c == '{':
		l.pos++
		l.emit(TokJSXExprOpen, start)
		l.push(frame{kind: frameCode, jsxExpr: true})
	case c == '"' || c == '\'':
		l.scanString(c, false)
	case c == '=' || c == '.' || c == ':':
		l.pos++
		l.emit(TokJSXPunct, start)
	case isIdentStartAt(l.src, l.pos):
		l.pos = scanJSXIdent(l.src, l.pos)
		kind := TokJSXAttr
		if !f.named || l.continuesTagName() {
			kind = TokJSXName
		}
		f.named = true
		l.emit(kind, start)
	default:
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		l.fail(start, "unexpected character "+quoteRune(r)+" in JSX tag")
	}
}

// continuesTagName reports whether the previous tokens are "Name." or "ns:".
func (l *lexer) continuesTagName() bool {
	n := len(l.tokens)
	if n < 2 {
		return false
	}
	sep, name := l.tokens[n-1], l.tokens[n-2]
	return sep.Kind == TokJSXPunct && (sep.Text == "." || sep.Text == ":") && name.Kind == TokJSXName
}

func (l *lexer) stepJSXChildren() {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '<' && l.src[l.pos] != '{' {
		l.pos++
	}
	if l.pos > start {
		if strings.TrimSpace(l.src[start:l.pos]) != "" {
			l.emit(TokJSXText, start)
		}
		return
	}
	if l.src[l.pos] == '{' {
		l.pos++
		l.emit(TokJSXExprOpen, start)
		l.push(frame{kind: frameCode, jsxExpr: true})
		return
	}
	l.pos++
	l.emit(TokJSXPunct, start)
	l.push(frame{kind: frameJSXTag})
}

// opensControlHeader reports whether a "(" about to be emitted follows
// if, while, for, with or "for await".
func (l *lexer) opensControlHeader() bool {
	prev := l.prev()
	if prev == nil || prev.Kind != TokIdent {
		return false
	}
	switch prev.Text {
	case "if", "while", "for", "with":
		return true
	case "await":
		n := len(l.tokens)
		return n >= 2 && l.tokens[n-2].is(TokIdent, "for")
	}
	return false
}

// typeAliasValue reports whether the next token is the right-hand side of
// "type Name =" or "type Name<...> =", where "<" starts type parameters.
func (l *lexer) typeAliasValue() bool {
	n := len(l.tokens)
	if n < 3 || !l.tokens[n-1].is(TokPunct, "=") {
		return false
	}
	i := n - 2
	if l.tokens[i].is(TokPunct, ">") {
		depth := 0
		for ; i >= 0; i-- {
			t := l.tokens[i]
			if t.Kind != TokPunct && t.Kind != TokIdent {
				return false
			}
			if t.is(TokPunct, ">") {
				depth++
			} else if t.is(TokPunct, "<") {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		i--
	}
	return i >= 1 && l.tokens[i].Kind == TokIdent && l.tokens[i-1].is(TokIdent, "type")
}

// looksLikeJSX rejects TSX generic arrow parameters such as <T,> and
// <T extends U>.
func (l *lexer) looksLikeJSX() bool {
	i := skipSpaces(l.src, l.pos+1)
	if i >= len(l.src) {
		return false
	}
	if l.src[i] == '>' {
		return true
	}
	if !isIdentStartAt(l.src, i) {
		return false
	}
	i = skipSpaces(l.src, scanJSXIdent(l.src, i))
	if i >= len(l.src) {
		return false
	}
	if l.src[i] == ',' {
		return false
	}
	if strings.HasPrefix(l.src[i:], "extends") {
		after := i + len("extends")
		if after >= len(l.src) || !isIdentPartAt(l.src, after) {
			return false
		}
	}
	return true
}

func (l *lexer) scanString(quote byte, escapes bool) {
	start := l.pos
	l.pos++
	var value strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == quote:
			l.pos++
			l.tokens = append(l.tokens, Token{
				Kind:  TokString,
				Text:  l.src[start:l.pos],
				Value: value.String(),
				Start: start,
				End:   l.pos,
			})
			return
		case c == '\\' && escapes:
			if l.pos+1 >= len(l.src) {
				l.pos++
				continue
			}
			next := l.src[l.pos+1]
			switch next {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case '\n':
			default:
				value.WriteByte(next)
			}
			l.pos += 2
		case (c == '\n' || c == '\r') && escapes:
			l.fail(start, "unterminated string literal")
			return
		default:
			value.WriteByte(c)
			l.pos++
		}
	}
	l.fail(start, "unterminated string literal")
}

func (l *lexer) scanRegex() {
	start := l.pos
	l.pos++
	inClass := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
			continue
		case c == '\n' || c == '\r':
			l.fail(start, "unterminated regular expression")
			return
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			l.pos++
			for l.pos < len(l.src) && isIdentPartAt(l.src, l.pos) {
				l.pos++
			}
			l.emit(TokRegex, start)
			return
		}
		l.pos++
	}
	l.fail(start, "unterminated regular expression")
}

func (l *lexer) scanNumber() {
	start := l.pos
	hex := strings.HasPrefix(l.src[start:], "0x") || strings.HasPrefix(l.src[start:], "0X")
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if !isAlnum(c) && c != '_' && c != '.' {
			return
		}
		l.pos++
		if (c == 'e' || c == 'E') && !hex && l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
	}
}

func skipSpaces(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStartAt(src string, i int) bool {
	c := src[i]
	if c < utf8.RuneSelf {
		return c == '$' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	r, _ := utf8.DecodeRuneInString(src[i:])
	return unicode.IsLetter(r)
}

func isIdentPartAt(src string, i int) bool {
	c := src[i]
	if c < utf8.RuneSelf {
		return c == '$' || c == '_' || isAlnum(c)
	}
	r, _ := utf8.DecodeRuneInString(src[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || r == '\u200C' || r == '\u200D'
}

func scanIdent(src string, i int) int {
	for i < len(src) && isIdentPartAt(src, i) {
		if src[i] < utf8.RuneSelf {
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(src[i:])
		i += size
	}
	return i
}

// scanJSXIdent also accepts '-', as in aria-label.
func scanJSXIdent(src string, i int) int {
	for i < len(src) {
		if src[i] == '-' {
			i++
			continue
		}
		next := scanIdent(src, i)
		if next == i {
			return i
		}
		i = next
	}
	return i
}

func quoteRune(r rune) string {
	if r == utf8.RuneError {
		return "(invalid UTF-8)"
	}
	return "'" + string(r) + "'"
}
