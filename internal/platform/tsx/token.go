package tsx

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokIdent TokenKind = iota
	TokString
	TokTemplate
	TokNumber
	TokRegex
	TokPunct
	TokJSXName
	TokJSXAttr
	TokJSXText
	TokJSXPunct
	TokJSXExprOpen
	TokJSXExprClose
)

func (k TokenKind) String() string {
	switch k {
	case TokIdent:
		return "Ident"
	case TokString:
		return "String"
	case TokTemplate:
		return "Template"
	case TokNumber:
		return "Number"
	case TokRegex:
		return "Regex"
	case TokPunct:
		return "Punct"
	case TokJSXName:
		return "JSXName"
	case TokJSXAttr:
		return "JSXAttr"
	case TokJSXText:
		return "JSXText"
	case TokJSXPunct:
		return "JSXPunct"
	case TokJSXExprOpen:
		return "JSXExprOpen"
	case TokJSXExprClose:
		return "JSXExprClose"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexeme with its byte span in the source.
//
// Template literals are split at substitutions: "`a${" and "}b`" are separate
// TokTemplate tokens with the substitution's tokens in between.
type Token struct {
	Kind  TokenKind
	Text  string
	Value string // unquoted value, TokString only
	Start int
	End   int
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) isPunct(texts ...string) bool {
	if t.Kind != TokPunct {
		return false
	}
	for _, text := range texts {
		if t.Text == text {
			return true
		}
	}
	return false
}

// keywords after which an expression (and so a regex or JSX element) may start.
var exprKeywords = map[string]struct{}{
	"return":     {},
	"typeof":     {},
	"instanceof": {},
	"in":         {},
	"of":         {},
	"new":        {},
	"delete":     {},
	"void":       {},
	"throw":      {},
	"case":       {},
	"do":         {},
	"else":       {},
	"yield":      {},
	"await":      {},
	"default":    {},
	"extends":    {},
}

// exprAllowedAfter reports whether an expression may begin right after prev.
func exprAllowedAfter(prev *Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Kind {
	case TokIdent:
		_, ok := exprKeywords[prev.Text]
		return ok
	case TokPunct:
		switch prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case TokTemplate:
		return len(prev.Text) >= 2 && prev.Text[len(prev.Text)-2:] == "${"
	case TokJSXExprOpen:
		return true
	default:
		return false
	}
}

// SyntaxError reports source the lexer could not make sense of.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}
