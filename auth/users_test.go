package auth

import (
	"context"
	"errors"
	"testing"
)

// Validation runs before any storage access, so these paths are
// exercised without a database.

func TestNewUserStore_Initializes(t *testing.T) {
	if NewUserStore(nil) == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	s := NewUserStore(nil)

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@x.com", "secret1"},
		{"no email", "alice", "", "secret1"},
		{"no password", "alice", "a@x.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	t.Parallel()
	s := NewUserStore(nil)

	_, err := s.Register(context.Background(), "alice", "a@x.com", "12345")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestChangePassword_MissingFields(t *testing.T) {
	t.Parallel()
	s := NewUserStore(nil)

	if err := s.ChangePassword(context.Background(), "u1", "", "newpass1"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if err := s.ChangePassword(context.Background(), "u1", "oldpass1", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestChangePassword_ShortNewPassword(t *testing.T) {
	t.Parallel()
	s := NewUserStore(nil)

	err := s.ChangePassword(context.Background(), "u1", "oldpass1", "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}
