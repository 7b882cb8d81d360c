package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitWithf(1, format, args...)
}

// ExitWithf writes a formatted error message to stderr and exits with code.
// Commands whose exit status carries meaning use it to keep usage and run
// failures on their documented code.
func ExitWithf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
