package tsx

// RefForm says how an identifier occurrence must be rewritten to rename the
// binding without changing what the surrounding code means.
type RefForm int

const (
	// RefPlain is an ordinary use: replace the name.
	RefPlain RefForm = iota
	// RefShorthand is a shorthand property { X }: it must become { X: New }.
	RefShorthand
	// RefExportShorthand is export { X }: it must become export { New as X }.
	RefExportShorthand
)

// Reference is an identifier occurrence referring to a binding.
type Reference struct {
	Start int
	End   int
	Form  RefForm
	JSX   bool // element name such as <Check />
}

type identRole int

const (
	roleNone identRole = iota
	roleRef
	roleShorthand
	roleExportShorthand
	roleProperty // obj.X, { X: ... } keys, method names, export aliases
	roleImport
)

type braceKind int

const (
	braceBlock braceKind = iota
	braceObject
	braceExport
	braceMembers // class, interface and enum bodies
	braceOther
)

// memberModifiers may precede a class or interface member name.
var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true,
	"readonly": true, "abstract": true, "declare": true, "override": true,
	"async": true, "get": true, "set": true, "accessor": true,
}

// typeOperators precede a type or value, never a member name.
var typeOperators = map[string]bool{
	"as": true, "satisfies": true, "keyof": true, "is": true, "extends": true,
	"implements": true, "infer": true, "unique": true,
}

// References returns every occurrence of name that refers to a binding,
// skipping import specifiers, member properties and object keys. JSX element
// names count; JSX attribute names do not.
func (f *File) References(name string) []Reference {
	var refs []Reference
	for i, tok := range f.tokens {
		if tok.Text != name {
			continue
		}
		switch tok.Kind {
		case TokIdent:
			switch f.roles[i] {
			case roleRef:
				refs = append(refs, Reference{Start: tok.Start, End: tok.End})
			case roleShorthand:
				refs = append(refs, Reference{Start: tok.Start, End: tok.End, Form: RefShorthand})
			case roleExportShorthand:
				refs = append(refs, Reference{Start: tok.Start, End: tok.End, Form: RefExportShorthand})
			}
		case TokJSXName:
			if i > 0 && f.tokens[i-1].Kind == TokJSXPunct && (f.tokens[i-1].Text == "." || f.tokens[i-1].Text == ":") {
				continue
			}
			refs = append(refs, Reference{Start: tok.Start, End: tok.End, JSX: true})
		}
	}
	return refs
}

// classify assigns a role to every identifier token by tracking which kind of
// bracket encloses it.
func classify(tokens []Token, imports []ImportDecl) []identRole {
	roles := make([]identRole, len(tokens))
	var stack []braceKind
	top := func() braceKind {
		if len(stack) == 0 {
			return braceBlock
		}
		return stack[len(stack)-1]
	}
	pop := func() {
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}

	imp := 0
	for i, tok := range tokens {
		for imp < len(imports) && imports[imp].End <= tok.Start {
			imp++
		}
		if imp < len(imports) && tok.Start >= imports[imp].Start && tok.End <= imports[imp].End {
			if tok.Kind == TokIdent {
				roles[i] = roleImport
			}
			continue
		}

		switch tok.Kind {
		case TokPunct:
			switch tok.Text {
			case "{":
				stack = append(stack, openBrace(tokens, i))
			case "(", "[":
				stack = append(stack, braceOther)
			case "}", ")", "]":
				pop()
			}
		case TokJSXExprOpen:
			stack = append(stack, braceOther)
		case TokJSXExprClose:
			pop()
		case TokTemplate:
			opens := len(tok.Text) >= 2 && tok.Text[len(tok.Text)-2:] == "${"
			closes := tok.Text[0] == '}'
			if closes {
				pop()
			}
			if opens {
				stack = append(stack, braceOther)
			}
		case TokIdent:
			roles[i] = identRoleAt(tokens, i, top())
		}
	}
	return roles
}

func openBrace(tokens []Token, i int) braceKind {
	if i == 0 {
		return braceBlock
	}
	prev := tokens[i-1]
	if prev.is(TokIdent, "export") || (prev.is(TokIdent, "type") && i > 1 && tokens[i-2].is(TokIdent, "export")) {
		return braceExport
	}
	if declaresMembers(tokens, i) {
		return braceMembers
	}
	if prev.Kind == TokIdent {
		switch prev.Text {
		case "else", "do", "try", "finally":
			return braceBlock
		}
	}
	if prev.isPunct("{", "}", ";", "=>") {
		return braceBlock
	}
	if exprAllowedAfter(&prev) {
		return braceObject
	}
	return braceBlock
}

// declaresMembers reports whether the "{" at i opens the body of a class,
// interface or enum declaration, looking back across its name, type
// parameters and heritage clauses.
func declaresMembers(tokens []Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := tokens[j]
		switch {
		case t.Kind == TokIdent:
			switch t.Text {
			case "class", "interface", "enum":
				return true
			}
		case t.Kind == TokPunct:
			if t.isPunct("{", "}", ";", "(", ")", "=>") {
				return false
			}
		default:
			return false
		}
	}
	return false
}

// isMemberName reports whether the identifier at i names a member of the
// class or interface body enclosing it.
func isMemberName(tokens []Token, i int) bool {
	if i+1 >= len(tokens) || !tokens[i+1].isPunct(":", "?", "(", "=", "!", "<", ";", ",", "}") {
		return false
	}
	if i == 0 {
		return true
	}
	prev := tokens[i-1]
	switch prev.Kind {
	case TokPunct:
		return prev.isPunct("{", "}", ";", ",", ")", "]")
	case TokIdent:
		if memberModifiers[prev.Text] {
			return true
		}
		if typeOperators[prev.Text] {
			return false
		}
		_, keyword := exprKeywords[prev.Text]
		return !keyword
	default:
		// A member without a trailing semicolon ends in a literal.
		return true
	}
}

// typeLiteralKey reports whether the identifier at i is a key of a type
// literal such as { a?: string; Check(): void }, where members may be
// separated by semicolons or newlines.
func typeLiteralKey(tokens []Token, i int) bool {
	if i == 0 || i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1]
	optional := next.isPunct("?") && i+2 < len(tokens) && tokens[i+2].isPunct(":", "(")
	if !optional && !next.isPunct(":") {
		return false
	}
	prev := tokens[i-1]
	switch prev.Kind {
	case TokPunct:
		if optional {
			return prev.isPunct("{", ",", ";", ")", "]", "}", ">")
		}
		return prev.isPunct(";", ")", "]", "}", ">")
	case TokIdent:
		if prev.Text == "readonly" {
			return true
		}
		if typeOperators[prev.Text] || memberModifiers[prev.Text] {
			return false
		}
		_, keyword := exprKeywords[prev.Text]
		return !keyword
	case TokString, TokNumber:
		return true
	}
	return false
}

func identRoleAt(tokens []Token, i int, enclosing braceKind) identRole {
	var prev, next Token
	hasPrev, hasNext := i > 0, i+1 < len(tokens)
	if hasPrev {
		prev = tokens[i-1]
	}
	if hasNext {
		next = tokens[i+1]
	}
	if hasPrev && prev.isPunct(".", "?.", "#") {
		return roleProperty
	}
	listStart := hasPrev && prev.isPunct("{", ",")

	switch enclosing {
	case braceObject:
		if listStart && hasNext && next.isPunct(":", "(") {
			return roleProperty
		}
		if typeLiteralKey(tokens, i) {
			return roleProperty
		}
		if listStart && hasNext && next.isPunct(",", "}", "=") {
			return roleShorthand
		}
		if hasPrev && (prev.is(TokIdent, "get") || prev.is(TokIdent, "set") || prev.is(TokIdent, "async")) && hasNext && next.isPunct("(") {
			return roleProperty
		}
	case braceMembers:
		if isMemberName(tokens, i) {
			return roleProperty
		}
	case braceExport:
		if hasPrev && prev.is(TokIdent, "as") {
			return roleProperty
		}
		if tokens[i].Text == "as" && hasNext && next.Kind == TokIdent {
			return roleNone
		}
		if listStart && hasNext && next.isPunct(",", "}") {
			return roleExportShorthand
		}
	}
	return roleRef
}
