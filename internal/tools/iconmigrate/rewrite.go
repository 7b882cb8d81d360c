package iconmigrate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/iconmigrate/internal/platform/errors"
	"github.com/louisbranch/iconmigrate/internal/platform/icons"
	"github.com/louisbranch/iconmigrate/internal/platform/tsx"
)

// Issue is a reason a file cannot be migrated without a human.
type Issue struct {
	Code     apperrors.Code    `json:"code"`
	Line     int               `json:"line"`
	Column   int               `json:"column"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
	offset   int
}

// Rename counts the references rewritten from one old name to its replacement.
type Rename struct {
	Source string `json:"source"`
	Old    string `json:"old"`
	New    string `json:"new"`
	Count  int    `json:"count"`
}

// Outcome is the result of rewriting one file.
type Outcome struct {
	Text    string
	Changed bool
	// Skipped is set when the file mentions no old source at all.
	Skipped bool
	Issues  []Issue
	Renames []Rename
}

// Rewriter migrates the icon imports of a single file. It never touches the
// filesystem; the caller supplies the text and decides what to do with the
// result.
type Rewriter struct {
	table  *icons.Table
	locale string
}

// NewRewriter returns a Rewriter for table with issue messages in locale.
func NewRewriter(table *icons.Table, locale string) *Rewriter {
	return &Rewriter{table: table, locale: locale}
}

// binding is one old specifier resolved through the table.
type binding struct {
	decl     int
	spec     tsx.ImportSpecifier
	mapping  icons.Mapping
	typeOnly bool
}

type edit struct {
	start, end int
	text       string
}

// Rewrite migrates src, the content of path. Files that cannot be lexed
// return a PARSE_FAILED error; files the table cannot fully migrate come back
// unchanged with Issues set.
func (r *Rewriter) Rewrite(path, src string) (Outcome, error) {
	unchanged := Outcome{Text: src}
	if !r.mentionsSource(src) {
		unchanged.Skipped = true
		return unchanged, nil
	}

	file, err := tsx.Parse(src, parseOptions(path))
	if err != nil {
		return unchanged, apperrors.WrapWithMetadata(apperrors.CodeParseFailed,
			fmt.Sprintf("parse %s: %v", path, err), map[string]string{"Detail": err.Error()}, err)
	}

	decls := file.Imports()
	var oldIdx []int
	targetIdx := -1
	sourceStarts := map[int]bool{}
	for i, decl := range decls {
		switch {
		case r.table.IsSource(decl.Source):
			oldIdx = append(oldIdx, i)
			sourceStarts[decl.SourceStart] = true
		case decl.Source == r.table.Target() && targetIdx < 0 && decl.Namespace == "" && !decl.SideEffect:
			targetIdx = i
		}
	}

	var issues []Issue
	for _, source := range r.table.Sources() {
		// Subpaths such as lucide-react/dist/esm/icons/x bypass the table.
		mentions := func(v string) bool { return v == source || strings.HasPrefix(v, source+"/") }
		for _, lit := range file.StringLiterals(mentions) {
			if sourceStarts[lit.Start] {
				continue
			}
			issues = append(issues, r.issue(file, lit.Start, apperrors.CodeUnhandledReference, map[string]string{
				"Source": source,
			}))
		}
	}
	if len(oldIdx) == 0 {
		unchanged.Issues = sortIssues(issues)
		return unchanged, nil
	}

	var bindings []binding
	for _, i := range oldIdx {
		decl := decls[i]
		if kind := unsupportedKind(decl); kind != "" {
			issues = append(issues, r.issue(file, decl.Start, apperrors.CodeUnsupportedImport, map[string]string{
				"Kind":   kind,
				"Source": decl.Source,
			}))
		}
		for _, spec := range decl.Specifiers {
			m, ok := r.table.Lookup(decl.Source, spec.Imported)
			if !ok {
				issues = append(issues, r.issue(file, spec.Start, apperrors.CodeUnmappedIdentifier, map[string]string{
					"Name":   spec.Imported,
					"Source": decl.Source,
					"Target": r.table.Target(),
				}))
				continue
			}
			bindings = append(bindings, binding{
				decl:     i,
				spec:     spec,
				mapping:  m,
				typeOnly: decl.TypeOnly || spec.TypeOnly || m.Kind == icons.KindType,
			})
		}
	}
	issues = append(issues, r.conflicts(file, decls, oldIdx, targetIdx, bindings)...)
	if len(issues) > 0 {
		unchanged.Issues = sortIssues(issues)
		return unchanged, nil
	}

	var edits []edit
	renames := map[[3]string]int{}
	var wanted []targetSpec
	renamedLocals := map[string]bool{}
	for _, b := range bindings {
		refs := file.References(b.spec.Local)
		if len(refs) == 0 {
			continue
		}
		// A local imported twice is renamed once.
		if renamedLocals[b.spec.Local] {
			continue
		}
		renamedLocals[b.spec.Local] = true
		if b.spec.Aliased() {
			wanted = append(wanted, targetSpec{imported: b.mapping.New, local: b.spec.Local, typeOnly: b.typeOnly})
			continue
		}
		wanted = append(wanted, targetSpec{imported: b.mapping.New, local: b.mapping.New, typeOnly: b.typeOnly})
		for _, ref := range refs {
			edits = append(edits, edit{start: ref.Start, end: ref.End, text: renamed(ref, b.spec.Local, b.mapping.New)})
		}
		renames[[3]string{b.mapping.Source, b.spec.Imported, b.mapping.New}] += len(refs)
	}

	edits = append(edits, r.importEdits(src, decls, oldIdx, targetIdx, wanted)...)
	out, err := applyEdits(src, edits)
	if err != nil {
		return unchanged, apperrors.WrapWithMetadata(apperrors.CodeParseFailed,
			fmt.Sprintf("rewrite %s: %v", path, err), map[string]string{"Detail": err.Error()}, err)
	}
	return Outcome{
		Text:    out,
		Changed: out != src,
		Renames: sortRenames(renames),
	}, nil
}

// parseOptions picks lexer options from a file extension. Plain .js files are
// lexed with JSX on because React projects commonly put JSX in them.
func parseOptions(path string) tsx.Options {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return tsx.Options{JSX: false}
	default:
		return tsx.Options{JSX: true}
	}
}

func (r *Rewriter) mentionsSource(src string) bool {
	for _, source := range r.table.Sources() {
		if strings.Contains(src, source) {
			return true
		}
	}
	return false
}

func (r *Rewriter) issue(file *tsx.File, offset int, code apperrors.Code, metadata map[string]string) Issue {
	pos := file.Position(offset)
	msg := apperrors.WithMetadata(code, string(code), metadata).Localize(r.locale)
	return Issue{Code: code, Line: pos.Line, Column: pos.Column, Message: msg, Metadata: metadata, offset: offset}
}

func unsupportedKind(decl tsx.ImportDecl) string {
	switch {
	case decl.SideEffect:
		return "side-effect"
	case decl.Namespace != "":
		return "namespace"
	case decl.Default != "":
		return "default"
	}
	return ""
}

// conflicts reports replacement names that are already bound or used by
// something other than the target import.
func (r *Rewriter) conflicts(file *tsx.File, decls []tsx.ImportDecl, oldIdx []int, targetIdx int, bindings []binding) []Issue {
	old := map[int]bool{}
	for _, i := range oldIdx {
		old[i] = true
	}
	bound := map[string]bool{}
	fromTarget := map[string]bool{}
	for i, decl := range decls {
		if old[i] {
			continue
		}
		locals := []string{decl.Default, decl.Namespace}
		for _, spec := range decl.Specifiers {
			if i == targetIdx && spec.Imported == spec.Local {
				fromTarget[spec.Local] = true
				continue
			}
			locals = append(locals, spec.Local)
		}
		for _, local := range locals {
			if local != "" {
				bound[local] = true
			}
		}
	}

	var issues []Issue
	seen := map[string]bool{}
	for _, b := range bindings {
		if b.spec.Aliased() || seen[b.mapping.New] {
			continue
		}
		seen[b.mapping.New] = true
		used := len(file.References(b.mapping.New)) > 0 && !fromTarget[b.mapping.New]
		if bound[b.mapping.New] || used {
			issues = append(issues, r.issue(file, b.spec.Start, apperrors.CodeNameConflict, map[string]string{
				"Name": b.mapping.New,
				"Old":  b.spec.Local,
			}))
		}
	}
	return issues
}

func renamed(ref tsx.Reference, local, replacement string) string {
	switch ref.Form {
	case tsx.RefShorthand:
		return local + ": " + replacement
	case tsx.RefExportShorthand:
		return replacement + " as " + local
	default:
		return replacement
	}
}

func applyEdits(src string, edits []edit) (string, error) {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range edits {
		if e.start < pos {
			return "", fmt.Errorf("overlapping edits at offset %d", e.start)
		}
		b.WriteString(src[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(src[pos:])
	return b.String(), nil
}

func sortIssues(issues []Issue) []Issue {
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].offset < issues[j].offset })
	return issues
}

func sortRenames(counts map[[3]string]int) []Rename {
	out := make([]Rename, 0, len(counts))
	for key, count := range counts {
		out = append(out, Rename{Source: key[0], Old: key[1], New: key[2], Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Old != out[j].Old {
			return out[i].Old < out[j].Old
		}
		return out[i].Source < out[j].Source
	})
	return out
}
