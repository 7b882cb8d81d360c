package tsx

// ImportDecl is a static import declaration.
type ImportDecl struct {
	// Start and End span the declaration including its trailing semicolon.
	Start int
	End   int

	Source      string
	SourceStart int // offset of the opening quote
	Quote       byte
	Semicolon   bool

	TypeOnly   bool // import type { ... }
	SideEffect bool // import "x"
	Default    string
	Namespace  string
	Specifiers []ImportSpecifier
}

// ImportSpecifier is one entry of a named import list.
type ImportSpecifier struct {
	Imported string
	Local    string
	TypeOnly bool // { type X }
	Start    int
	End      int
}

// Aliased reports whether the specifier binds a different local name.
func (s ImportSpecifier) Aliased() bool { return s.Imported != s.Local }

// Imports returns the file's static import declarations in source order.
func (f *File) Imports() []ImportDecl {
	out := make([]ImportDecl, len(f.imports))
	for i, decl := range f.imports {
		decl.Specifiers = append([]ImportSpecifier(nil), decl.Specifiers...)
		out[i] = decl
	}
	return out
}

type tokenCursor struct {
	tokens []Token
	i      int
}

func (c *tokenCursor) at(offset int) (Token, bool) {
	j := c.i + offset
	if j < 0 || j >= len(c.tokens) {
		return Token{}, false
	}
	return c.tokens[j], true
}

func (c *tokenCursor) ident(offset int, text string) bool {
	tok, ok := c.at(offset)
	return ok && tok.is(TokIdent, text)
}

func (c *tokenCursor) punct(offset int, text string) bool {
	tok, ok := c.at(offset)
	return ok && tok.is(TokPunct, text)
}

func (c *tokenCursor) kind(offset int, kind TokenKind) bool {
	tok, ok := c.at(offset)
	return ok && tok.Kind == kind
}

func parseImports(tokens []Token) []ImportDecl {
	var decls []ImportDecl
	for i := 0; i < len(tokens); i++ {
		if !tokens[i].is(TokIdent, "import") {
			continue
		}
		if i > 0 && tokens[i-1].isPunct(".", "?.") {
			continue
		}
		decl, next, ok := parseImportAt(tokens, i)
		if !ok {
			continue
		}
		decls = append(decls, decl)
		i = next - 1
	}
	return decls
}

// parseImportAt parses the declaration whose import keyword is tokens[i] and
// returns the index just past it. Dynamic imports, import.meta and
// import x = require(...) do not match.
func parseImportAt(tokens []Token, i int) (ImportDecl, int, bool) {
	c := &tokenCursor{tokens: tokens, i: i + 1}
	decl := ImportDecl{Start: tokens[i].Start}

	if c.kind(0, TokString) {
		decl.SideEffect = true
		return finishImport(c, decl)
	}

	if c.ident(0, "type") && c.kind(1, TokIdent) && !c.ident(1, "from") {
		decl.TypeOnly = true
		c.i++
	} else if c.ident(0, "type") && c.punct(1, "{") {
		decl.TypeOnly = true
		c.i++
	} else if c.ident(0, "type") && c.punct(1, "*") {
		decl.TypeOnly = true
		c.i++
	}

	if tok, ok := c.at(0); ok && tok.Kind == TokIdent && !(tok.Text == "from" && c.kind(1, TokString)) {
		decl.Default = tok.Text
		c.i++
		if c.punct(0, ",") {
			c.i++
		} else if !c.ident(0, "from") {
			return ImportDecl{}, 0, false
		}
	}

	switch {
	case c.punct(0, "*"):
		if !c.ident(1, "as") || !c.kind(2, TokIdent) {
			return ImportDecl{}, 0, false
		}
		decl.Namespace = c.tokens[c.i+2].Text
		c.i += 3
	case c.punct(0, "{"):
		c.i++
		specs, ok := parseSpecifiers(c)
		if !ok {
			return ImportDecl{}, 0, false
		}
		decl.Specifiers = specs
	}

	if !c.ident(0, "from") || !c.kind(1, TokString) {
		return ImportDecl{}, 0, false
	}
	c.i++
	return finishImport(c, decl)
}

func parseSpecifiers(c *tokenCursor) ([]ImportSpecifier, bool) {
	specs := []ImportSpecifier{}
	for {
		if c.punct(0, "}") {
			c.i++
			return specs, true
		}
		first, ok := c.at(0)
		if !ok {
			return nil, false
		}
		spec := ImportSpecifier{Start: first.Start}
		if c.ident(0, "type") && (c.kind(1, TokIdent) || c.kind(1, TokString)) && !c.ident(1, "as") {
			spec.TypeOnly = true
			c.i++
		}
		name, ok := c.at(0)
		if !ok {
			return nil, false
		}
		switch name.Kind {
		case TokIdent:
			spec.Imported = name.Text
		case TokString:
			spec.Imported = name.Value
		default:
			return nil, false
		}
		c.i++
		spec.Local = spec.Imported
		if c.ident(0, "as") {
			if !c.kind(1, TokIdent) {
				return nil, false
			}
			spec.Local = c.tokens[c.i+1].Text
			c.i += 2
		} else if name.Kind == TokString {
			return nil, false
		}
		spec.End = c.tokens[c.i-1].End
		specs = append(specs, spec)
		switch {
		case c.punct(0, ","):
			c.i++
		case c.punct(0, "}"):
		default:
			return nil, false
		}
	}
}

// finishImport consumes the source string, any import attributes and an
// optional semicolon. c points at the source string.
func finishImport(c *tokenCursor, decl ImportDecl) (ImportDecl, int, bool) {
	src := c.tokens[c.i]
	decl.Source = src.Value
	decl.SourceStart = src.Start
	decl.Quote = src.Text[0]
	end := src.End
	c.i++

	if (c.ident(0, "with") || c.ident(0, "assert")) && c.punct(1, "{") {
		j := c.i + 2
		for j < len(c.tokens) && !c.tokens[j].isPunct("}") {
			j++
		}
		if j >= len(c.tokens) {
			return ImportDecl{}, 0, false
		}
		end = c.tokens[j].End
		c.i = j + 1
	}
	if c.punct(0, ";") {
		decl.Semicolon = true
		end = c.tokens[c.i].End
		c.i++
	}
	decl.End = end
	return decl, c.i, true
}
