package iconmigrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/louisbranch/iconmigrate/internal/platform/errors"
	"github.com/louisbranch/iconmigrate/internal/platform/icons"
	"github.com/louisbranch/iconmigrate/internal/platform/sourcefile"
)

const tracerName = "github.com/louisbranch/iconmigrate/internal/tools/iconmigrate"

// planned is a file read and rewritten in memory, waiting for the apply phase.
type planned struct {
	file   *sourcefile.File
	result FileResult
	after  string
}

// Run migrates every matching file under cfg.Root. It plans all rewrites in
// memory first and writes only when the plan is acceptable: in strict mode a
// single file with issues means nothing is written. Per-file failures are
// recorded in the report; the returned error is reserved for runs that cannot
// start or are cancelled.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) (*Report, error) {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(errOut, "iconmigrate: ", 0)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "iconmigrate.run")
	defer span.End()

	table, err := loadTable(cfg.Mapping)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load mapping")
		return nil, err
	}

	root := filepath.Clean(cfg.Root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		rootErr := apperrors.WithMetadata(apperrors.CodeRootInvalid, fmt.Sprintf("root %s is not a directory", root), map[string]string{"Root": root})
		if err != nil {
			rootErr.Cause = err
		}
		span.RecordError(rootErr)
		span.SetStatus(codes.Error, "invalid root")
		return nil, rootErr
	}
	span.SetAttributes(
		attribute.String("iconmigrate.root", root),
		attribute.Bool("iconmigrate.dry_run", cfg.DryRun),
		attribute.Bool("iconmigrate.strict", cfg.Strict),
	)

	paths, walkFailures, err := collectFiles(ctx, root, cfg.Extensions, cfg.Exclude)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	report := &Report{Root: root, DryRun: cfg.DryRun, Strict: cfg.Strict}
	for _, failure := range walkFailures {
		report.add(FileResult{
			Path:   relPath(root, failure.path),
			Status: statusFor(apperrors.CodeReadFailed),
			Error:  failureMessage(apperrors.CodeReadFailed, failure.err, cfg.Locale),
		})
	}

	rewriter := NewRewriter(table, cfg.Locale)
	var plan []planned
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Summary.Scanned++
		p, ok := planFile(ctx, rewriter, root, path, cfg, logger)
		if !ok {
			continue
		}
		plan = append(plan, p)
	}

	blocked := false
	if cfg.Strict {
		for _, p := range plan {
			if p.result.Status == StatusIssues {
				blocked = true
				break
			}
		}
	}
	report.Blocked = blocked && !cfg.DryRun

	for _, p := range plan {
		result := p.result
		if result.Status == StatusChanged {
			switch {
			case cfg.DryRun || blocked:
				result.Status = StatusPending
			default:
				p.file.Text = p.after
				if err := sourcefile.Write(p.file); err != nil {
					result.Status = statusFor(apperrors.CodeWriteFailed)
					result.Error = failureMessage(apperrors.CodeWriteFailed, err, cfg.Locale)
				} else {
					logger.Printf("wrote %s", result.Path)
				}
			}
		}
		report.add(result)
	}
	span.SetAttributes(
		attribute.Int("iconmigrate.scanned", report.Summary.Scanned),
		attribute.Int("iconmigrate.changed", report.Summary.Changed),
		attribute.Int("iconmigrate.issues", report.Summary.Issues),
		attribute.Int("iconmigrate.failed", report.Summary.Failed),
	)

	if cfg.JSONOutput {
		if err := writeJSON(out, report); err != nil {
			return nil, err
		}
		return report, nil
	}
	writeText(out, errOut, report, cfg.Locale)
	return report, nil
}

// planFile reads and rewrites one file in memory. Files that never mention an
// old source are dropped from the report.
func planFile(ctx context.Context, rewriter *Rewriter, root, path string, cfg Config, logger *log.Logger) (planned, bool) {
	rel := relPath(root, path)
	_, span := otel.Tracer(tracerName).Start(ctx, "iconmigrate.file")
	defer span.End()
	span.SetAttributes(attribute.String("iconmigrate.path", rel))

	fail := func(code apperrors.Code, err error) (planned, bool) {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		logger.Printf("%s: %v", rel, err)
		return planned{result: FileResult{Path: rel, Status: statusFor(code), Error: failureMessage(code, err, cfg.Locale)}}, true
	}

	file, err := sourcefile.Read(path)
	if err != nil {
		return fail(apperrors.CodeReadFailed, err)
	}
	outcome, err := rewriter.Rewrite(path, file.Text)
	if err != nil {
		return fail(apperrors.CodeOf(err), err)
	}
	if outcome.Skipped {
		logger.Printf("skip %s", rel)
		return planned{}, false
	}

	result := FileResult{Path: rel, Renames: outcome.Renames}
	switch {
	case len(outcome.Issues) > 0:
		result.Status = statusFor(outcome.Issues[0].Code)
		result.Issues = outcome.Issues
	case outcome.Changed:
		result.Status = StatusChanged
		if cfg.Diff {
			result.Diff = unifiedDiff(rel, file.Text, outcome.Text)
		}
	default:
		result.Status = StatusUnchanged
	}
	span.SetAttributes(attribute.String("iconmigrate.status", string(result.Status)))
	for _, rename := range outcome.Renames {
		logger.Printf("%s: %s -> %s (%d)", rel, rename.Old, rename.New, rename.Count)
	}
	return planned{file: file, result: result, after: outcome.Text}, true
}

// failureMessage localizes err under code, reusing the metadata of a domain
// error that already carries that code.
func failureMessage(code apperrors.Code, err error, locale string) string {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) && domainErr.Code == code {
		return domainErr.Localize(locale)
	}
	return apperrors.WrapWithMetadata(code, err.Error(), map[string]string{"Detail": err.Error()}, err).Localize(locale)
}

func loadTable(path string) (*icons.Table, error) {
	var (
		table *icons.Table
		err   error
	)
	if path == "" {
		table, err = icons.Default()
	} else {
		table, err = icons.Load(path)
	}
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeMappingInvalid, err.Error(), map[string]string{"Detail": err.Error()}, err)
	}
	return table, nil
}

func unifiedDiff(path, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
