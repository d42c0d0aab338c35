package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewLoginGuard_Initializes(t *testing.T) {
	if NewLoginGuard(nil) == nil {
		t.Fatal("expected non-nil guard")
	}
}

func TestLockedError_CarriesUnlockInstant(t *testing.T) {
	t.Parallel()

	until := time.Now().Add(LockoutWindow)
	var err error = &LockedError{Until: until}

	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatal("errors.As failed to unwrap LockedError")
	}
	if !locked.Until.Equal(until) {
		t.Fatalf("Until mismatch: got %v want %v", locked.Until, until)
	}
	if !strings.Contains(err.Error(), until.Format(time.RFC3339)) {
		t.Fatalf("message %q does not include the unlock instant", err.Error())
	}
}
