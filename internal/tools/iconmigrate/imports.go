package iconmigrate

import (
	"sort"
	"strings"

	"github.com/louisbranch/iconmigrate/internal/platform/tsx"
)

type targetSpec struct {
	imported string
	local    string
	typeOnly bool
}

func (s targetSpec) render(withType bool) string {
	var b strings.Builder
	if withType && s.typeOnly {
		b.WriteString("type ")
	}
	b.WriteString(s.imported)
	if s.local != s.imported {
		b.WriteString(" as ")
		b.WriteString(s.local)
	}
	return b.String()
}

type specSet map[[2]string]targetSpec

// add merges s and reports whether the set changed. A value binding wins over
// a type-only one for the same name.
func (set specSet) add(s targetSpec) bool {
	key := [2]string{s.imported, s.local}
	existing, ok := set[key]
	switch {
	case !ok:
		set[key] = s
		return true
	case existing.typeOnly && !s.typeOnly:
		set[key] = s
		return true
	}
	return false
}

func (set specSet) sorted() []targetSpec {
	out := make([]targetSpec, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].imported != out[j].imported {
			return out[i].imported < out[j].imported
		}
		return out[i].local < out[j].local
	})
	return out
}

// importEdits consolidates the target import. It rewrites the existing target
// import in place when there is one, otherwise it takes the place of the
// first old import; every other old import is removed.
func (r *Rewriter) importEdits(src string, decls []tsx.ImportDecl, oldIdx []int, targetIdx int, wanted []targetSpec) []edit {
	specs := specSet{}
	var anchor tsx.ImportDecl
	remove := oldIdx
	if targetIdx >= 0 {
		anchor = decls[targetIdx]
		for _, spec := range anchor.Specifiers {
			specs.add(targetSpec{imported: spec.Imported, local: spec.Local, typeOnly: anchor.TypeOnly || spec.TypeOnly})
		}
	} else {
		anchor = decls[oldIdx[0]]
		remove = oldIdx[1:]
	}

	added := false
	for _, w := range wanted {
		if specs.add(w) {
			added = true
		}
	}

	var edits []edit
	for _, i := range remove {
		edits = append(edits, removal(src, decls[i]))
	}
	switch {
	case targetIdx >= 0 && !added:
	case targetIdx < 0 && len(specs) == 0:
		edits = append(edits, removal(src, anchor))
	default:
		edits = append(edits, edit{
			start: anchor.Start,
			end:   anchor.End,
			text:  renderImport(src, anchor, specs.sorted(), r.table.Target()),
		})
	}
	return edits
}

// renderImport writes the consolidated declaration in the style of anchor:
// same quote, same semicolon, and one specifier per line if anchor spanned
// several lines.
func renderImport(src string, anchor tsx.ImportDecl, specs []targetSpec, target string) string {
	allType := len(specs) > 0
	for _, s := range specs {
		if !s.typeOnly {
			allType = false
			break
		}
	}
	importType := allType && anchor.Default == ""

	var b strings.Builder
	b.WriteString("import ")
	if importType {
		b.WriteString("type ")
	}
	if anchor.Default != "" {
		b.WriteString(anchor.Default)
		if len(specs) > 0 {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
		}
	}
	if len(specs) > 0 {
		multiline := strings.Contains(src[anchor.Start:anchor.End], "\n")
		if multiline {
			b.WriteString("{\n")
			for _, s := range specs {
				b.WriteString("  ")
				b.WriteString(s.render(!importType))
				b.WriteString(",\n")
			}
			b.WriteString("} ")
		} else {
			parts := make([]string, len(specs))
			for i, s := range specs {
				parts[i] = s.render(!importType)
			}
			b.WriteString("{ ")
			b.WriteString(strings.Join(parts, ", "))
			b.WriteString(" } ")
		}
	}
	quote := string(anchor.Quote)
	b.WriteString("from ")
	b.WriteString(quote + target + quote)
	if anchor.Semicolon {
		b.WriteString(";")
	}
	return b.String()
}

// removal deletes decl together with its indentation and line break when it
// sits on a line of its own.
func removal(src string, decl tsx.ImportDecl) edit {
	start, end := decl.Start, decl.End
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	if strings.HasPrefix(src[end:], "\r\n") {
		end += 2
	} else if end < len(src) && src[end] == '\n' {
		end++
	} else if end < len(src) {
		return edit{start: decl.Start, end: decl.End}
	}

	lineStart := start
	for lineStart > 0 && (src[lineStart-1] == ' ' || src[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart == 0 || src[lineStart-1] == '\n' {
		start = lineStart
	}
	return edit{start: start, end: end}
}
