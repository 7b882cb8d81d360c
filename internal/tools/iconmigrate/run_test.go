package iconmigrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/iconmigrate/internal/platform/errors"
)

const (
	checkSource = "import { Check } from \"lucide-react\"\nexport const a = <Check />\n"
	checkWant   = "import { RiCheckLine } from \"@remixicon/react\"\nexport const a = <RiCheckLine />\n"
	rocketSrc   = "import { Rocket } from \"lucide-react\"\nexport const b = <Rocket />\n"
)

func testRunConfig(root string) Config {
	return Config{
		Root:       root,
		Extensions: []string{".tsx", ".ts", ".jsx", ".js"},
		Exclude:    []string{"node_modules", ".git"},
		Strict:     true,
		Timeout:    time.Minute,
		Locale:     "en-US",
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func runMigrate(t *testing.T, cfg Config) (*Report, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	report, err := Run(context.Background(), cfg, &out, &errOut)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return report, out.String(), errOut.String()
}

func TestRunAppliesChangesAndIsIdempotent(t *testing.T) {
	root := t.TempDir()
	plain := "export const b = 1\n"
	writeTree(t, root, map[string]string{
		"src/a.tsx":                checkSource,
		"src/b.ts":                 plain,
		"src/notes.md":             "import { Check } from \"lucide-react\"\n",
		"node_modules/pkg/c.tsx":   checkSource,
		".git/hooks/d.js":          checkSource,
		"src/components/e.test.js": "import { Search } from 'lucide-react'\ntest('x', () => render(<Search />))\n",
	})

	report, out, _ := runMigrate(t, testRunConfig(root))
	if got := readFile(t, root, "src/a.tsx"); got != checkWant {
		t.Fatalf("a.tsx =\n%s", got)
	}
	if got := readFile(t, root, "src/b.ts"); got != plain {
		t.Fatalf("b.ts changed: %q", got)
	}
	if got := readFile(t, root, "node_modules/pkg/c.tsx"); got != checkSource {
		t.Fatal("excluded directory was rewritten")
	}
	if got := readFile(t, root, ".git/hooks/d.js"); got != checkSource {
		t.Fatal("excluded directory was rewritten")
	}
	if !strings.Contains(readFile(t, root, "src/components/e.test.js"), "<RiSearch2Line />") {
		t.Fatal("expected nested .js file to be migrated")
	}
	if report.Summary.Scanned != 3 || report.Summary.Changed != 2 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if report.ExitCode() != ExitChanged {
		t.Fatalf("exit code = %d, want %d", report.ExitCode(), ExitChanged)
	}
	if !strings.Contains(out, "updated src/a.tsx") {
		t.Fatalf("output missing updated line:\n%s", out)
	}
	if !strings.Contains(out, "Scanned 3 files: 2 changed") {
		t.Fatalf("output missing summary:\n%s", out)
	}

	again, _, _ := runMigrate(t, testRunConfig(root))
	if again.ExitCode() != ExitClean || again.Summary.Changed != 0 || len(again.Files) != 0 {
		t.Fatalf("second run = %+v, want clean", again)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": checkSource})

	cfg := testRunConfig(root)
	cfg.DryRun = true
	cfg.Diff = true
	report, out, _ := runMigrate(t, cfg)

	if got := readFile(t, root, "a.tsx"); got != checkSource {
		t.Fatal("dry run wrote the file")
	}
	if report.Summary.Pending != 1 || report.ExitCode() != ExitChanged {
		t.Fatalf("report = %+v", report.Summary)
	}
	for _, want := range []string{
		"would update a.tsx",
		"--- a/a.tsx",
		"+++ b/a.tsx",
		"-import { Check } from \"lucide-react\"",
		"+import { RiCheckLine } from \"@remixicon/react\"",
		"Dry run: 1 files would be updated.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunStrictBlocksAllWrites(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": checkSource, "b.tsx": rocketSrc})

	report, out, _ := runMigrate(t, testRunConfig(root))
	if got := readFile(t, root, "a.tsx"); got != checkSource {
		t.Fatal("strict mode wrote a file despite issues elsewhere")
	}
	if !report.Blocked || report.ExitCode() != ExitIssues {
		t.Fatalf("report = %+v, exit %d", report, report.ExitCode())
	}
	if report.Summary.Pending != 1 || report.Summary.Issues != 1 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if !strings.Contains(out, "b.tsx:1:10: Rocket imported from lucide-react has no mapping to @remixicon/react [UNMAPPED_IDENTIFIER]") {
		t.Fatalf("output missing issue line:\n%s", out)
	}
	if !strings.Contains(out, "Strict mode: 1 files have issues, nothing was written.") {
		t.Fatalf("output missing strict note:\n%s", out)
	}
}

func TestRunNonStrictWritesCleanFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": checkSource, "b.tsx": rocketSrc})

	cfg := testRunConfig(root)
	cfg.Strict = false
	report, _, _ := runMigrate(t, cfg)
	if got := readFile(t, root, "a.tsx"); got != checkWant {
		t.Fatalf("a.tsx =\n%s", got)
	}
	if got := readFile(t, root, "b.tsx"); got != rocketSrc {
		t.Fatal("file with issues was rewritten")
	}
	if report.Blocked || report.ExitCode() != ExitChanged {
		t.Fatalf("report = %+v, exit %d", report.Summary, report.ExitCode())
	}
}

func TestRunReportsFileFailuresAndContinues(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.tsx":      checkSource,
		"broken.tsx": "import { Check } from 'lucide-react'\nconst s = 'open\n",
		"binary.js":  "lucide-react \xff\xfe\xfd",
	})

	report, _, errOut := runMigrate(t, testRunConfig(root))
	if got := readFile(t, root, "a.tsx"); got != checkWant {
		t.Fatal("healthy file should still be migrated")
	}
	if report.Summary.Failed != 2 || report.ExitCode() != ExitFailure {
		t.Fatalf("summary = %+v, exit %d", report.Summary, report.ExitCode())
	}
	if !strings.Contains(errOut, "broken.tsx: cannot parse file: 2:11: unterminated string literal") {
		t.Fatalf("errOut missing parse failure:\n%s", errOut)
	}
	if !strings.Contains(errOut, "binary.js: cannot read file:") {
		t.Fatalf("errOut missing decode failure:\n%s", errOut)
	}
}

func TestRunPreservesByteOrderMark(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": "\xEF\xBB\xBF" + checkSource})

	runMigrate(t, testRunConfig(root))
	if got := readFile(t, root, "a.tsx"); got != "\xEF\xBB\xBF"+checkWant {
		t.Fatalf("a.tsx = %q", got)
	}
}

func TestRunJSONReport(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": checkSource, "b.tsx": rocketSrc})

	cfg := testRunConfig(root)
	cfg.JSONOutput = true
	_, out, _ := runMigrate(t, cfg)

	var decoded Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if !decoded.Blocked || len(decoded.Files) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
	var issues []Issue
	for _, file := range decoded.Files {
		if file.Path == "b.tsx" {
			issues = file.Issues
		}
	}
	if len(issues) != 1 || issues[0].Code != apperrors.CodeUnmappedIdentifier || issues[0].Metadata["Name"] != "Rocket" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestRunMappingOverride(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a.tsx": checkSource})
	mapping := filepath.Join(t.TempDir(), "icons.yaml")
	if err := os.WriteFile(mapping, []byte("target: \"@acme/icons\"\nsources:\n  - name: lucide-react\n    icons:\n      Check: AcmeCheck\n"), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}

	cfg := testRunConfig(root)
	cfg.Mapping = mapping
	runMigrate(t, cfg)
	want := "import { AcmeCheck } from \"@acme/icons\"\nexport const a = <AcmeCheck />\n"
	if got := readFile(t, root, "src/a.tsx"); got != want {
		t.Fatalf("a.tsx =\n%s", got)
	}
}

func TestRunRejectsBadInputs(t *testing.T) {
	cfg := testRunConfig(filepath.Join(t.TempDir(), "missing"))
	_, err := Run(context.Background(), cfg, nil, nil)
	if !errors.Is(err, apperrors.New(apperrors.CodeRootInvalid, "")) {
		t.Fatalf("error = %v, want ROOT_INVALID", err)
	}

	cfg = testRunConfig(t.TempDir())
	cfg.Mapping = filepath.Join(t.TempDir(), "missing.toml")
	_, err = Run(context.Background(), cfg, nil, nil)
	if apperrors.CodeOf(err) != apperrors.CodeMappingInvalid {
		t.Fatalf("error = %v, want MAPPING_INVALID", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.tsx": checkSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testRunConfig(root), nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if got := readFile(t, root, "a.tsx"); got != checkSource {
		t.Fatal("cancelled run wrote a file")
	}
}

func TestReportExitCode(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   int
	}{
		{name: "clean", report: Report{Strict: true}, want: ExitClean},
		{name: "changed", report: Report{Summary: Summary{Changed: 1}}, want: ExitChanged},
		{name: "pending", report: Report{Summary: Summary{Pending: 1}}, want: ExitChanged},
		{name: "failed", report: Report{Summary: Summary{Changed: 1, Failed: 1}}, want: ExitFailure},
		{name: "strict issues", report: Report{Strict: true, Summary: Summary{Issues: 1, Failed: 1}}, want: ExitIssues},
		{name: "lenient issues", report: Report{Summary: Summary{Issues: 1}}, want: ExitClean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.ExitCode(); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[apperrors.Code]FileStatus{
		apperrors.CodeUnmappedIdentifier: StatusIssues,
		apperrors.CodeUnsupportedImport:  StatusIssues,
		apperrors.CodeUnhandledReference: StatusIssues,
		apperrors.CodeNameConflict:       StatusIssues,
		apperrors.CodeParseFailed:        StatusFailed,
		apperrors.CodeReadFailed:         StatusFailed,
		apperrors.CodeWriteFailed:        StatusFailed,
		apperrors.CodeUnknown:            StatusFailed,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %s, want %s", code, got, want)
		}
	}
}
