package models

import (
	"errors"
	"testing"
	"time"

	"github.com/sayanlabs/auth-service/internal/utils"
)

func TestParsePurpose(t *testing.T) {
	if len(AllPurposes) != 13 {
		t.Fatalf("expected 13 purposes, got %d", len(AllPurposes))
	}
	for _, p := range AllPurposes {
		parsed, err := ParsePurpose(p.String())
		if err != nil {
			t.Fatalf("ParsePurpose(%q) returned error: %v", p, err)
		}
		if parsed != p {
			t.Fatalf("ParsePurpose(%q) = %q", p, parsed)
		}
	}

	for _, bad := range []string{"", "Login", "newsletter"} {
		if _, err := ParsePurpose(bad); !errors.Is(err, utils.ErrUnknownPurpose) {
			t.Fatalf("ParsePurpose(%q) should fail with ErrUnknownPurpose, got %v", bad, err)
		}
	}
}

func TestOTPIsExpired(t *testing.T) {
	now := time.Now()
	otp := &OTP{ExpiresAt: now}

	if otp.IsExpired(now.Add(-time.Second)) {
		t.Fatal("a code before its expiry is not expired")
	}
	if !otp.IsExpired(now) {
		t.Fatal("a code is expired exactly at its expiry instant")
	}
	if !otp.IsExpired(now.Add(time.Second)) {
		t.Fatal("a code past its expiry is expired")
	}
}
