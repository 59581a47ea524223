package config

import (
	"fmt"
	"os"
)

// Exitf prints a formatted message to stderr and exits with status 1,
// the shared fatal path for command mains.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
