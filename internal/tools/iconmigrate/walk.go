package iconmigrate

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// walkFailure is a path the walker could not read.
type walkFailure struct {
	path string
	err  error
}

// collectFiles lists regular files under root with one of exts, in lexical
// order, without descending into directories named in exclude. Symlinks are
// not followed.
func collectFiles(ctx context.Context, root string, exts, exclude []string) ([]string, []walkFailure, error) {
	wantExt := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wantExt[ext] = true
	}
	skipDir := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skipDir[name] = true
	}

	var files []string
	var failures []walkFailure
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if de.IsDir() {
				if path != root && skipDir[de.Name()] {
					return godirwalk.SkipThis
				}
				return nil
			}
			if !de.IsRegular() {
				return nil
			}
			if wantExt[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if ctx.Err() != nil {
				return godirwalk.Halt
			}
			failures = append(failures, walkFailure{path: path, err: err})
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return files, failures, nil
}

// relPath renders path relative to root with forward slashes for reports.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
