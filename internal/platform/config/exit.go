package config

import (
	"fmt"
	"os"
	"strings"
)

// Exitf reports a storefront command failure on stderr and stops the
// process with status 1. The cmd mains use it for failures that happen
// before the server's logger is running (flag parsing) and for fatal
// serve errors.
func Exitf(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
