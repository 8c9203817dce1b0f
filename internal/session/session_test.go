package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"john.doe@company.com", "john doe"},
		{"admin@company.com", "admin"},
		{"a.b.c@company.com", "a b.c"},
		{"no-at-sign", "no-at-sign"},
		{"first.last", "first last"},
		{"", ""},
		{"@company.com", ""},
		{"x@y@z", "x"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.email); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestSimulatedAuthenticator_AcceptsAnyCredentials(t *testing.T) {
	auth := NewSimulatedAuthenticator(0)
	cases := []Credentials{
		{Email: "john.doe@company.com", Password: "hunter2"},
		{Email: "admin@company.com", Password: ""},
		{Email: "weird", Password: "\x00\xff"},
	}
	for _, creds := range cases {
		u, err := auth.Authenticate(context.Background(), creds)
		if err != nil {
			t.Fatalf("Authenticate(%q) error: %v", creds.Email, err)
		}
		if u.Email != creds.Email {
			t.Errorf("Email = %q, want %q", u.Email, creds.Email)
		}
		if u.DisplayName != DisplayName(creds.Email) {
			t.Errorf("DisplayName = %q, want %q", u.DisplayName, DisplayName(creds.Email))
		}
	}
}

func TestSimulatedAuthenticator_WaitsForDelay(t *testing.T) {
	auth := NewSimulatedAuthenticator(30 * time.Millisecond)
	start := time.Now()
	if _, err := auth.Authenticate(context.Background(), Credentials{Email: "a@b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("returned after %v, expected at least 30ms", elapsed)
	}
}

func TestSimulatedAuthenticator_Cancelled(t *testing.T) {
	auth := NewSimulatedAuthenticator(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := auth.Authenticate(ctx, Credentials{Email: "a@b"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNewSimulatedAuthenticator_NegativeDelay(t *testing.T) {
	if a := NewSimulatedAuthenticator(-time.Second); a.Delay != 0 {
		t.Fatalf("Delay = %v, want 0", a.Delay)
	}
}
