package utils

import (
	"strings"
	"testing"
)

func TestRandomCodeLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := RandomCode(6, DigitsAlphabet)
		if err != nil {
			t.Fatalf("RandomCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(DigitsAlphabet, c) {
				t.Fatalf("character %q outside alphabet", c)
			}
		}
	}
}

func TestAlphanumericAlphabetExcludesAmbiguous(t *testing.T) {
	for _, bad := range "OI01" {
		if strings.ContainsRune(AlphanumericAlphabet, bad) {
			t.Fatalf("alphabet must not contain %q", bad)
		}
	}

	for i := 0; i < 50; i++ {
		code, err := RandomCode(8, AlphanumericAlphabet)
		if err != nil {
			t.Fatalf("RandomCode returned error: %v", err)
		}
		if strings.ContainsAny(code, "OI01") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

func TestRandomCodeRejectsBadInput(t *testing.T) {
	if _, err := RandomCode(0, DigitsAlphabet); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := RandomCode(6, ""); err == nil {
		t.Fatal("expected error for empty alphabet")
	}
}
