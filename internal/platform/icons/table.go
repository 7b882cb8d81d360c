package icons

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

//go:embed remixicon.toml
var defaultTable []byte

// Kind tells whether a mapped name is an icon component or a type.
type Kind string

const (
	KindIcon Kind = "icon"
	KindType Kind = "type"
)

// Mapping is a single resolved old name to new name entry.
type Mapping struct {
	Source string
	Old    string
	New    string
	Kind   Kind
}

// Source describes one retired import source and its names.
type Source struct {
	Name          string
	Icons         map[string]string
	Types         map[string]string
	SuffixAliases []string
	PrefixAliases []string
}

// Table maps names imported from retired sources to names exported by the
// target source.
type Table struct {
	target  string
	sources []Source
	index   map[string]int
}

// Default returns the embedded migration table.
func Default() (*Table, error) {
	table, err := Decode(defaultTable, FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("default table: %w", err)
	}
	return table, nil
}

// New builds a validated table from a target and its sources.
func New(target string, sources []Source) (*Table, error) {
	table := &Table{
		target:  strings.TrimSpace(target),
		sources: make([]Source, 0, len(sources)),
		index:   make(map[string]int, len(sources)),
	}
	for _, src := range sources {
		src.Name = strings.TrimSpace(src.Name)
		if _, ok := table.index[src.Name]; ok {
			return nil, fmt.Errorf("duplicate source %q", src.Name)
		}
		table.index[src.Name] = len(table.sources)
		table.sources = append(table.sources, src)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Target returns the import source every mapped name comes from.
func (t *Table) Target() string {
	return t.target
}

// Sources returns the retired import source names in table order.
func (t *Table) Sources() []string {
	names := make([]string, 0, len(t.sources))
	for _, src := range t.sources {
		names = append(names, src.Name)
	}
	return names
}

// IsSource reports whether name is one of the retired import sources.
func (t *Table) IsSource(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Lookup resolves a name imported from source. Exact icon and type entries win
// over alias folding; suffix aliases are tried before prefix aliases.
func (t *Table) Lookup(source, name string) (Mapping, bool) {
	i, ok := t.index[source]
	if !ok {
		return Mapping{}, false
	}
	src := &t.sources[i]
	if newName, ok := src.Icons[name]; ok {
		return Mapping{Source: src.Name, Old: name, New: newName, Kind: KindIcon}, true
	}
	if newName, ok := src.Types[name]; ok {
		return Mapping{Source: src.Name, Old: name, New: newName, Kind: KindType}, true
	}
	for _, suffix := range src.SuffixAliases {
		base := strings.TrimSuffix(name, suffix)
		if base == name || base == "" {
			continue
		}
		if newName, ok := src.Icons[base]; ok {
			return Mapping{Source: src.Name, Old: name, New: newName, Kind: KindIcon}, true
		}
	}
	for _, prefix := range src.PrefixAliases {
		base := strings.TrimPrefix(name, prefix)
		if base == name || base == "" {
			continue
		}
		if newName, ok := src.Icons[base]; ok {
			return Mapping{Source: src.Name, Old: name, New: newName, Kind: KindIcon}, true
		}
	}
	return Mapping{}, false
}

// Mappings returns the explicit entries of a source sorted by old name.
func (t *Table) Mappings(source string) []Mapping {
	i, ok := t.index[source]
	if !ok {
		return nil
	}
	src := &t.sources[i]
	result := make([]Mapping, 0, len(src.Icons)+len(src.Types))
	for old, newName := range src.Icons {
		result = append(result, Mapping{Source: src.Name, Old: old, New: newName, Kind: KindIcon})
	}
	for old, newName := range src.Types {
		result = append(result, Mapping{Source: src.Name, Old: old, New: newName, Kind: KindType})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Old < result[j].Old
	})
	return result
}

// Validate checks that the table is a conflict-free function from old names to
// new names. Every problem found is reported.
func (t *Table) Validate() error {
	var problems []error
	if t.target == "" {
		problems = append(problems, errors.New("target source is required"))
	}
	if len(t.sources) == 0 {
		problems = append(problems, errors.New("at least one source is required"))
	}

	oldNames := make(map[string]string)
	for _, src := range t.sources {
		if src.Name == "" {
			problems = append(problems, errors.New("source name is required"))
			continue
		}
		if src.Name == t.target {
			problems = append(problems, fmt.Errorf("source %q is also the target", src.Name))
		}
		if len(src.Icons) == 0 && len(src.Types) == 0 {
			problems = append(problems, fmt.Errorf("source %q has no mappings", src.Name))
		}
		for _, alias := range append(append([]string{}, src.SuffixAliases...), src.PrefixAliases...) {
			if !IsIdentifier(alias) {
				problems = append(problems, fmt.Errorf("source %q: alias %q is not an identifier", src.Name, alias))
			}
		}
		for _, entries := range []map[string]string{src.Icons, src.Types} {
			for old, newName := range entries {
				if !IsIdentifier(old) {
					problems = append(problems, fmt.Errorf("source %q: %q is not an identifier", src.Name, old))
				}
				if !IsIdentifier(newName) {
					problems = append(problems, fmt.Errorf("source %q: %q maps to %q, which is not an identifier", src.Name, old, newName))
				}
				oldNames[old] = src.Name
			}
		}
		for name := range src.Types {
			if _, ok := src.Icons[name]; ok {
				problems = append(problems, fmt.Errorf("source %q: %q is both an icon and a type", src.Name, name))
			}
		}
	}

	for _, src := range t.sources {
		for _, entries := range []map[string]string{src.Icons, src.Types} {
			for old, newName := range entries {
				if owner, ok := oldNames[newName]; ok {
					problems = append(problems, fmt.Errorf("source %q: %q maps to %q, which is itself an old name in %q", src.Name, old, newName, owner))
				}
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].Error() < problems[j].Error()
	})
	return fmt.Errorf("invalid mapping table: %w", errors.Join(problems...))
}

// IsIdentifier reports whether name is a valid JavaScript identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '$' || r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
