// Package sourcefile reads and writes source files while preserving their
// byte encoding, so a rewrite touches only the text it means to change.
package sourcefile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies how a file's bytes map to its text.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF8BOM Encoding = "utf-8-bom"
	UTF16LE Encoding = "utf-16le"
	UTF16BE Encoding = "utf-16be"
)

// ErrInvalidUTF8 marks content that is neither valid UTF-8 nor BOM-tagged UTF-16.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// File is a decoded source file.
type File struct {
	Path     string
	Text     string
	Encoding Encoding
	Mode     fs.FileMode
}

// Read loads and decodes path.
func Read(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, enc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &File{Path: path, Text: text, Encoding: enc, Mode: info.Mode().Perm()}, nil
}

// Decode detects the encoding of data and returns its text without any BOM.
func Decode(data []byte) (string, Encoding, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		rest := data[len(utf8BOM):]
		if !utf8.Valid(rest) {
			return "", "", ErrInvalidUTF8
		}
		return string(rest), UTF8BOM, nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		text, err := transcode(utf16(UTF16LE).NewDecoder(), data)
		return text, UTF16LE, err
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		text, err := transcode(utf16(UTF16BE).NewDecoder(), data)
		return text, UTF16BE, err
	}
	if !utf8.Valid(data) {
		return "", "", ErrInvalidUTF8
	}
	return string(data), UTF8, nil
}

// Encode renders text in enc, restoring any BOM the encoding carries.
func Encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case UTF8, "":
		return []byte(text), nil
	case UTF8BOM:
		return append(append([]byte{}, utf8BOM...), text...), nil
	case UTF16LE, UTF16BE:
		out, _, err := transform.Bytes(utf16(enc).NewEncoder(), []byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", enc, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}
}

// Write encodes f.Text and replaces f.Path atomically, keeping f.Mode.
func Write(f *File) error {
	data, err := Encode(f.Text, f.Encoding)
	if err != nil {
		return err
	}
	dir, base := filepath.Split(f.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", f.Path, err)
	}
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}

func utf16(enc Encoding) encoding.Encoding {
	if enc == UTF16BE {
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
}

func transcode(t transform.Transformer, data []byte) (string, error) {
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return string(out), nil
}
