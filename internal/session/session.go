// Package session models who is signed in to a console and how that identity
// is established.
package session

import (
	"context"
	"strings"
	"time"
)

// DefaultSignInDelay is the simulated identity-provider round trip.
const DefaultSignInDelay = 1500 * time.Millisecond

// User is the display identity of a signed-in operator.
type User struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Session is the authentication state of one console. User is non-nil
// exactly when Authenticated is true.
type Session struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Credentials are what the sign-in form submits.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator verifies credentials and returns the resulting identity.
// Implementations must honour ctx cancellation.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (User, error)
}

// DisplayName derives a display name from an email address: the part before
// the first '@', with its first '.' replaced by a space.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.Replace(local, ".", " ", 1)
}

// SimulatedAuthenticator accepts any credentials after Delay.
type SimulatedAuthenticator struct {
	Delay time.Duration
}

// NewSimulatedAuthenticator returns an authenticator with the given delay.
// A negative delay is treated as zero.
func NewSimulatedAuthenticator(delay time.Duration) *SimulatedAuthenticator {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedAuthenticator{Delay: delay}
}

// Authenticate waits for the configured delay and succeeds. It only fails
// when ctx is done first.
func (a *SimulatedAuthenticator) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	timer := time.NewTimer(a.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return User{}, ctx.Err()
	case <-timer.C:
	}

	return User{
		DisplayName: DisplayName(creds.Email),
		Email:       creds.Email,
	}, nil
}
