package utils

import "testing"

func TestTrimSpace(t *testing.T) {
	cases := map[string]string{
		"Art #1\x00\x00\x00": "Art #1",
		"ART\x00":            "ART",
		"  padded  ":         "padded",
		"\x00\x00":           "",
		"clean":              "clean",
		"A":                  "A",
		"X\x00":              "X",
	}
	for in, want := range cases {
		if got := TrimSpace(in); got != want {
			t.Errorf("TrimSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
