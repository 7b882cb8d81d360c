package iconmigrate

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/iconmigrate/internal/platform/errors"
)

// Exit codes of the iconmigrate command.
const (
	ExitClean   = 0
	ExitFailure = 1
	ExitChanged = 2
	ExitIssues  = 3
)

// statusFor maps the code a file reported to its status. Only source issues
// leave a file fixable by hand; anything else failed.
func statusFor(code apperrors.Code) FileStatus {
	if code.Category() == apperrors.CategoryIssue {
		return StatusIssues
	}
	return StatusFailed
}

// FileStatus is what happened to one file.
type FileStatus string

const (
	// StatusUnchanged files mention an old source but need no edit.
	StatusUnchanged FileStatus = "unchanged"
	// StatusChanged files were rewritten on disk.
	StatusChanged FileStatus = "changed"
	// StatusPending files would be rewritten but were not, because of
	// -dry-run or because strict mode blocked the apply phase.
	StatusPending FileStatus = "pending"
	StatusIssues  FileStatus = "issues"
	StatusFailed  FileStatus = "failed"
)

// FileResult reports one file that mentions an old import source or failed.
type FileResult struct {
	Path    string     `json:"path"`
	Status  FileStatus `json:"status"`
	Issues  []Issue    `json:"issues,omitempty"`
	Renames []Rename   `json:"renames,omitempty"`
	Error   string     `json:"error,omitempty"`
	Diff    string     `json:"diff,omitempty"`
}

// Summary counts files by status.
type Summary struct {
	Scanned   int `json:"scanned"`
	Changed   int `json:"changed"`
	Pending   int `json:"pending"`
	Unchanged int `json:"unchanged"`
	Issues    int `json:"issues"`
	Failed    int `json:"failed"`
}

// Report is the outcome of a run.
type Report struct {
	Root    string       `json:"root"`
	DryRun  bool         `json:"dry_run"`
	Strict  bool         `json:"strict"`
	Blocked bool         `json:"blocked"`
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}

// ExitCode maps the report to the command's exit status. Issues under strict
// mode win over file failures, which win over pending or applied changes.
func (r *Report) ExitCode() int {
	switch {
	case r.Strict && r.Summary.Issues > 0:
		return ExitIssues
	case r.Summary.Failed > 0:
		return ExitFailure
	case r.Summary.Changed > 0 || r.Summary.Pending > 0:
		return ExitChanged
	default:
		return ExitClean
	}
}

func (r *Report) add(result FileResult) {
	r.Files = append(r.Files, result)
	switch result.Status {
	case StatusChanged:
		r.Summary.Changed++
	case StatusPending:
		r.Summary.Pending++
	case StatusUnchanged:
		r.Summary.Unchanged++
	case StatusIssues:
		r.Summary.Issues++
	case StatusFailed:
		r.Summary.Failed++
	}
}

func writeJSON(out io.Writer, report *Report) error {
	if report.Files == nil {
		report.Files = []FileResult{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func writeText(out, errOut io.Writer, report *Report, locale string) {
	for _, file := range report.Files {
		switch file.Status {
		case StatusChanged:
			fmt.Fprintf(out, "updated %s\n", file.Path)
		case StatusPending:
			fmt.Fprintf(out, "would update %s\n", file.Path)
		case StatusIssues:
			for _, issue := range file.Issues {
				fmt.Fprintf(out, "%s:%d:%d: %s [%s]\n", file.Path, issue.Line, issue.Column, issue.Message, issue.Code)
			}
		case StatusFailed:
			fmt.Fprintf(errOut, "%s: %s\n", file.Path, file.Error)
		}
		if file.Diff != "" {
			fmt.Fprint(out, file.Diff)
		}
	}

	p := message.NewPrinter(language.Make(locale))
	s := report.Summary
	p.Fprintf(out, "Scanned %d files: %d changed, %d pending, %d unchanged, %d with issues, %d failed.\n",
		s.Scanned, s.Changed, s.Pending, s.Unchanged, s.Issues, s.Failed)
	if report.Blocked {
		p.Fprintf(out, "Strict mode: %d files have issues, nothing was written.\n", s.Issues)
	} else if report.DryRun && s.Pending > 0 {
		p.Fprintf(out, "Dry run: %d files would be updated.\n", s.Pending)
	}
}
