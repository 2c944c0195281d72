package utils

import "strings"

// TrimSpace strips whitespace and the NUL padding on-chain metadata
// strings carry in their fixed-size fields.
func TrimSpace(s string) string {
	s = strings.TrimSpace(s)
	var m, n int

	for i := 0; i < len(s); i++ {
		if s[i] != 0 {
			m = i
			break
		}
	}

	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != 0 {
			n = i + 1
			break
		}
	}

	return s[m:n]
}
