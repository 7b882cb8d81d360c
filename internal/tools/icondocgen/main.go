// Command icondocgen renders the icon migration table as Markdown so the
// mapping can be reviewed alongside the code that applies it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/louisbranch/iconmigrate/internal/platform/cmd"
	"github.com/louisbranch/iconmigrate/internal/platform/icons"
)

func main() {
	err := cmd.RunWithTelemetry(context.Background(), cmd.ServiceIconDocGen, func(context.Context) error {
		return run(os.Args[1:], os.Stdout, os.Stderr)
	})
	if err != nil {
		fatal(err)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	var outPath string
	var rootFlag string
	var mappingPath string
	flags := flag.NewFlagSet(cmd.ServiceIconDocGen, flag.ContinueOnError)
	flags.StringVar(&outPath, "out", "docs/icon-mapping.md", "output path for the mapping document")
	flags.StringVar(&rootFlag, "root", "", "repo root (defaults to locating go.mod)")
	flags.StringVar(&mappingPath, "mapping", "", "mapping table override (.toml, .yaml or .yml)")
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}

	table, err := loadTable(mappingPath)
	if err != nil {
		return err
	}
	root, err := resolveRoot(rootFlag)
	if err != nil {
		return err
	}
	output := outPath
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, outPath)
	}

	content := fmt.Sprintf(`---
title: "Icon Mapping"
parent: "Project"
nav_order: 30
---

%s`, table.Markdown())
	if err := writeOutput(output, content); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", output)
	return nil
}

func loadTable(path string) (*icons.Table, error) {
	if path == "" {
		return icons.Default()
	}
	return icons.Load(path)
}

func writeOutput(output, content string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write mapping doc: %w", err)
	}
	return nil
}

// resolveRoot chooses the repository root so generated docs land in the right tree.
func resolveRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		return filepath.Clean(flagRoot), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working dir: %w", err)
	}
	return findModuleRoot(wd)
}

// findModuleRoot walks upward to locate the module root for generation.
func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found above %s", start)
}

// fatal reports a generation error and exits immediately.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
