package icons

import (
	"strings"
)

// Markdown renders the table as a markdown catalog, one section per source.
func (t *Table) Markdown() string {
	var builder strings.Builder
	builder.WriteString("# Icon Mapping\n\n")
	builder.WriteString("Generated by `go run ./internal/tools/icondocgen`.\n\n")
	builder.WriteString("Every name below is imported from `")
	builder.WriteString(t.target)
	builder.WriteString("` after migration.\n")
	for _, src := range t.sources {
		builder.WriteString("\n## `")
		builder.WriteString(src.Name)
		builder.WriteString("`\n\n")
		if aliases := aliasNote(src); aliases != "" {
			builder.WriteString(aliases)
			builder.WriteString("\n\n")
		}
		builder.WriteString("| Old name | New name | Kind |\n")
		builder.WriteString("| --- | --- | --- |\n")
		for _, m := range t.Mappings(src.Name) {
			builder.WriteString("| `")
			builder.WriteString(m.Old)
			builder.WriteString("` | `")
			builder.WriteString(m.New)
			builder.WriteString("` | ")
			builder.WriteString(string(m.Kind))
			builder.WriteString(" |\n")
		}
	}
	return builder.String()
}

func aliasNote(src Source) string {
	var parts []string
	for _, suffix := range src.SuffixAliases {
		parts = append(parts, "`<Name>"+suffix+"`")
	}
	for _, prefix := range src.PrefixAliases {
		parts = append(parts, "`"+prefix+"<Name>`")
	}
	if len(parts) == 0 {
		return ""
	}
	return "Also matches " + strings.Join(parts, " and ") + " for every icon below."
}
