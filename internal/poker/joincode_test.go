package poker

import (
	"strings"
	"testing"
)

func TestJoinCodeAlphabetExcludesConfusables(t *testing.T) {
	for _, r := range "IO01" {
		if strings.ContainsRune(joinCodeAlphabet, r) {
			t.Fatalf("alphabet must not contain %q", r)
		}
	}
}

func TestNewJoinCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := newJoinCode()
		if len(code) != joinCodeLength {
			t.Fatalf("expected %d chars, got %q", joinCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}
