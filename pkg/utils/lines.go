package utils

import "strings"

// SplitLines splits newline separated input, trims every line and drops the
// blank ones.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
