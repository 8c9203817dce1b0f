package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dbops-console/internal/eventlog"
	"dbops-console/internal/operation"
	"dbops-console/internal/session"
	"dbops-console/internal/state"

	"github.com/go-chi/chi/v5"
)

// handleState returns the console snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, http.StatusOK, consoleFrom(r).Snapshot())
}

// handleSignIn starts the sign-in delay. The snapshot comes back with
// signInPending set; completion arrives over the websocket.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		SendError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	console := consoleFrom(r)
	if err := console.SignIn(session.Credentials{Email: req.Email, Password: req.Password}); err != nil {
		sendConsoleError(w, err)
		return
	}
	SendSuccess(w, http.StatusAccepted, console.Snapshot())
}

// handleSignOut resets the console's session.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	console := consoleFrom(r)
	console.SignOut()
	SendSuccess(w, http.StatusOK, console.Snapshot())
}

// handleListOperations returns the launcher cards.
func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, http.StatusOK, operation.Launchers())
}

// handleOpenOperation opens the dialog for the kind in the path.
func (s *Server) handleOpenOperation(w http.ResponseWriter, r *http.Request) {
	kind, err := operation.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		SendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	console := consoleFrom(r)
	if err := console.Open(kind); err != nil {
		sendConsoleError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, console.Snapshot())
}

// handleCloseOperation closes the dialog, discarding its values.
func (s *Server) handleCloseOperation(w http.ResponseWriter, r *http.Request) {
	console := consoleFrom(r)
	console.Close()
	SendSuccess(w, http.StatusOK, console.Snapshot())
}

// handleSetField stores one form value of the open dialog.
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := consoleFrom(r).SetField(req.Name, req.Value); err != nil {
		sendConsoleError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, map[string]string{"name": req.Name})
}

// handleSubmitOperation runs the executor for the open dialog's kind.
func (s *Server) handleSubmitOperation(w http.ResponseWriter, r *http.Request) {
	console := consoleFrom(r)
	if err := console.Submit(r.Context()); err != nil {
		sendConsoleError(w, err)
		return
	}
	SendSuccess(w, http.StatusOK, console.Snapshot())
}

// handleEvents returns the activity log filtered by the status query parameter.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := eventlog.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		SendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	SendSuccess(w, http.StatusOK, map[string]interface{}{
		"filter":  filter.String(),
		"options": eventlog.FilterOptions(),
		"events":  s.events.Filter(filter),
	})
}

// sendConsoleError maps console errors to HTTP statuses.
func sendConsoleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrNotAuthenticated):
		SendError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, state.ErrAlreadyAuthenticated), errors.Is(err, state.ErrNoOpenOperation):
		SendError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, state.ErrUnknownField), errors.Is(err, operation.ErrUnknownKind):
		SendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, operation.ErrNotImplemented):
		SendError(w, err.Error(), http.StatusNotImplemented)
	default:
		logError("Request failed", "error", err)
		SendError(w, "Internal server error", http.StatusInternalServerError)
	}
}
