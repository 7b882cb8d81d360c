//go:build integration
// +build integration

package integration

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestSourceWritesGoThroughSourcefile keeps every file mutation in the
// migration tool behind sourcefile.Write, which preserves encoding and mode
// and replaces files atomically.
func TestSourceWritesGoThroughSourcefile(t *testing.T) {
	config := &packages.Config{
		Mode:  packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps,
		Tests: false,
		Dir:   integrationRepoRoot(t),
	}
	pkgs, err := packages.Load(config, fileWriteGuardrailPatterns()...)
	if err != nil {
		t.Fatalf("load target packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("target package load errors")
	}
	if len(pkgs) == 0 {
		t.Fatal("no packages matched")
	}

	var violations []string
	for _, pkg := range pkgs {
		if isFileWriteGuardrailIgnoredPackage(pkg.PkgPath) {
			continue
		}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(node ast.Node) bool {
				call, ok := node.(*ast.CallExpr)
				if !ok {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}
				if _, ok := forbiddenFileWrites[sel.Sel.Name]; !ok {
					return true
				}
				if !selectsPackage(pkg.TypesInfo, sel, "os") {
					return true
				}
				position := pkg.Fset.Position(sel.Pos())
				violations = append(violations, formatFileWriteViolation(pkg.PkgPath, file, sel, position.String()))
				return true
			})
		}
	}

	if len(violations) > 0 {
		formatted := make([]string, 0, len(violations))
		for _, violation := range violations {
			formatted = append(formatted, "- "+filepath.ToSlash(violation))
		}
		t.Fatalf("source files must be written through sourcefile.Write:\n%s", strings.Join(formatted, "\n"))
	}
}

// TestParserPackagesStayPure keeps the parser free of file system access so
// it can be driven from memory.
func TestParserPackagesStayPure(t *testing.T) {
	config := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
		Dir:  integrationRepoRoot(t),
	}
	pkgs, err := packages.Load(config, "./internal/platform/tsx/...")
	if err != nil {
		t.Fatalf("load parser packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("parser package load errors")
	}
	for _, pkg := range pkgs {
		for path := range pkg.Imports {
			if path == "os" || path == "io/fs" || path == "path/filepath" {
				t.Errorf("%s imports %s", pkg.PkgPath, path)
			}
		}
	}
}

var forbiddenFileWrites = map[string]struct{}{
	"WriteFile":  {},
	"Create":     {},
	"CreateTemp": {},
	"OpenFile":   {},
	"Rename":     {},
	"Remove":     {},
	"RemoveAll":  {},
	"Truncate":   {},
	"Chmod":      {},
}

func selectsPackage(info *types.Info, sel *ast.SelectorExpr, path string) bool {
	ident, ok := sel.X.(*ast.Ident)
	if !ok || info == nil {
		return false
	}
	pkgName, ok := info.Uses[ident].(*types.PkgName)
	if !ok {
		return false
	}
	return pkgName.Imported().Path() == path
}

func formatFileWriteViolation(pkgPath string, file *ast.File, sel *ast.SelectorExpr, position string) string {
	if sel == nil || sel.Sel == nil {
		return fmt.Sprintf("%s: direct file write", position)
	}
	location := strings.TrimSpace(position)
	if location == "" {
		location = "<unknown>"
	}
	pkgPath = filepath.ToSlash(strings.TrimSpace(pkgPath))
	if pkgPath == "" {
		pkgPath = "<unknown-package>"
	}
	funcName := enclosingFunctionName(file, sel.Pos())
	if strings.TrimSpace(funcName) == "" {
		funcName = "<unknown-function>"
	}
	return fmt.Sprintf("%s: %s %s calls os.%s", location, pkgPath, funcName, sel.Sel.Name)
}

func enclosingFunctionName(file *ast.File, pos token.Pos) string {
	if file == nil {
		return ""
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name == nil {
			continue
		}
		if pos < fn.Pos() || pos > fn.End() {
			continue
		}
		if fn.Recv == nil || len(fn.Recv.List) == 0 {
			return fn.Name.Name
		}
		recvName := receiverTypeName(fn.Recv.List[0].Type)
		if recvName == "" {
			return fn.Name.Name
		}
		return recvName + "." + fn.Name.Name
	}
	return ""
}

func receiverTypeName(expr ast.Expr) string {
	switch typed := expr.(type) {
	case *ast.Ident:
		return typed.Name
	case *ast.StarExpr:
		return receiverTypeName(typed.X)
	case *ast.IndexExpr:
		return receiverTypeName(typed.X)
	case *ast.IndexListExpr:
		return receiverTypeName(typed.X)
	default:
		return ""
	}
}

func integrationRepoRoot(t *testing.T) string {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatal("go.mod not found")
		}
		wd = parent
	}
}

func TestFileWriteGuardrailScopes(t *testing.T) {
	patterns := fileWriteGuardrailPatterns()
	found := false
	for _, pattern := range patterns {
		if pattern == "./internal/tools/iconmigrate/..." {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected scan scope to include ./internal/tools/iconmigrate/..., got %v", patterns)
	}
}

func TestFileWriteGuardrailIgnoresSourcefile(t *testing.T) {
	if !isFileWriteGuardrailIgnoredPackage("github.com/louisbranch/iconmigrate/internal/platform/sourcefile") {
		t.Fatal("expected sourcefile package to be ignored")
	}
	if isFileWriteGuardrailIgnoredPackage("github.com/louisbranch/iconmigrate/internal/tools/iconmigrate") {
		t.Fatal("expected migration package to be scanned")
	}
}

func fileWriteGuardrailPatterns() []string {
	return []string{
		"./cmd/iconmigrate/...",
		"./internal/tools/iconmigrate/...",
		"./internal/platform/...",
	}
}

func isFileWriteGuardrailIgnoredPackage(pkgPath string) bool {
	path := filepath.ToSlash(strings.TrimSpace(pkgPath))
	if path == "" {
		return false
	}
	return strings.HasSuffix(path, "/internal/platform/sourcefile")
}
