package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"dbops-console/internal/state"
)

const consoleCookieName = "dbops_console"

type ctxKey struct{}

// generateToken produces a cryptographically random 32-byte hex console token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// withConsole binds the request to the browser's console, creating one and
// setting the cookie on first contact.
func (s *Server) withConsole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var console *state.Console
		if cookie, err := r.Cookie(consoleCookieName); err == nil {
			console, _ = s.store.Get(cookie.Value)
		}
		if console == nil {
			token, err := generateToken()
			if err != nil {
				SendError(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			console = s.store.Create(token)
			http.SetCookie(w, &http.Cookie{
				Name:     consoleCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(s.sessionDuration.Seconds()),
			})
			logDebug("Console created", "remote", r.RemoteAddr)
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, console)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// consoleFrom returns the console bound by withConsole.
func consoleFrom(r *http.Request) *state.Console {
	c, _ := r.Context().Value(ctxKey{}).(*state.Console)
	return c
}

// requireAuth rejects requests whose console is not signed in. API calls get
// a 401; page loads are sent back to the root view.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r)
		if c == nil || !c.Authenticated() {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				SendError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
