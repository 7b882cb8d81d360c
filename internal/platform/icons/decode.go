package icons

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a supported table encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

type tableSpec struct {
	Target  string       `toml:"target" yaml:"target"`
	Sources []sourceSpec `toml:"sources" yaml:"sources"`
}

type sourceSpec struct {
	Name          string            `toml:"name" yaml:"name"`
	SuffixAliases []string          `toml:"suffix_aliases" yaml:"suffix_aliases"`
	PrefixAliases []string          `toml:"prefix_aliases" yaml:"prefix_aliases"`
	Icons         map[string]string `toml:"icons" yaml:"icons"`
	Types         map[string]string `toml:"types" yaml:"types"`
}

// FormatForPath picks the table format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported mapping table extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads and validates a table file.
func Load(path string) (*Table, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping table: %w", err)
	}
	table, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Decode parses and validates a table. Unknown keys and duplicate keys are
// rejected.
func Decode(data []byte, format Format) (*Table, error) {
	var spec tableSpec
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &spec)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("decode toml: unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("decode yaml: empty document")
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	sources := make([]Source, 0, len(spec.Sources))
	for _, src := range spec.Sources {
		sources = append(sources, Source{
			Name:          src.Name,
			Icons:         src.Icons,
			Types:         src.Types,
			SuffixAliases: src.SuffixAliases,
			PrefixAliases: src.PrefixAliases,
		})
	}
	return New(spec.Target, sources)
}
