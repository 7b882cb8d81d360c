package config_test

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"

	"github.com/louisbranch/iconmigrate/internal/platform/config"
)

// TestExitWithfExitCodes runs each exit in a subprocess because os.Exit
// cannot be intercepted in-process.
func TestExitWithfExitCodes(t *testing.T) {
	if code := os.Getenv("TEST_EXITF_SUBPROCESS"); code != "" {
		if code == "default" {
			config.Exitf("fatal: %s", "something broke")
			return
		}
		n, _ := strconv.Atoi(code)
		config.ExitWithf(n, "fatal: %s", "something broke")
		return
	}

	tests := []struct {
		name string
		env  string
		want int
	}{
		{name: "Exitf", env: "default", want: 1},
		{name: "ExitWithf issues", env: "3", want: 3},
		{name: "ExitWithf changed", env: "2", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestExitWithfExitCodes$")
			cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS="+tt.env)

			out, err := cmd.CombinedOutput()

			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
			}
			if exitErr.ExitCode() != tt.want {
				t.Fatalf("exit code = %d, want %d", exitErr.ExitCode(), tt.want)
			}
			if !strings.Contains(string(out), "fatal: something broke") {
				t.Fatalf("expected stderr to contain %q, got %q", "fatal: something broke", string(out))
			}
		})
	}
}
