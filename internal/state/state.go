// Package state holds the per-browser console state: who is signed in,
// which operation dialog is open, and the notifications waiting to be shown.
package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dbops-console/internal/directory"
	"dbops-console/internal/i18n"
	"dbops-console/internal/operation"
	"dbops-console/internal/session"

	"github.com/google/uuid"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 5 * time.Second

var (
	ErrNotAuthenticated     = errors.New("not signed in")
	ErrAlreadyAuthenticated = errors.New("already signed in")
	ErrNoOpenOperation      = errors.New("no operation dialog is open")
	ErrUnknownField         = errors.New("field is not part of the open form")
)

// Notification is a transient message shown after a session transition.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// DialogSnapshot is the open operation dialog as the UI sees it.
type DialogSnapshot struct {
	ID             string              `json:"id"`
	Kind           operation.Kind      `json:"kind"`
	Form           operation.Form      `json:"form"`
	Values         operation.FormState `json:"values"`
	LoadingServers bool                `json:"loadingServers"`
}

// SnapshotData is a point-in-time copy of a Console for JSON serialization.
type SnapshotData struct {
	Session       session.Session      `json:"session"`
	SignInPending bool                 `json:"signInPending"`
	Operations    []operation.Launcher `json:"operations,omitempty"`
	Dialog        *DialogSnapshot      `json:"dialog,omitempty"`
	Notifications []Notification       `json:"notifications"`
}

// Options wires a Console to its collaborators.
type Options struct {
	Authenticator   session.Authenticator
	Directory       directory.Lister
	Executors       *operation.Registry
	NotificationTTL time.Duration
}

type dialog struct {
	id      string
	gen     uint64
	kind    operation.Kind
	values  operation.FormState
	servers []directory.Entry
	loading bool
	cancel  context.CancelFunc
}

// Console is the application state of one browser session.
type Console struct {
	mu            sync.RWMutex
	session       session.Session
	signInPending bool
	signInGen     uint64
	signInCancel  context.CancelFunc
	dialog        *dialog
	dialogGen     uint64
	notifications []Notification
	lastSeen      time.Time

	auth      session.Authenticator
	dir       directory.Lister
	executors *operation.Registry
	ttl       time.Duration
	now       func() time.Time

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

// New creates a signed-out Console.
func New(opts Options) *Console {
	if opts.Authenticator == nil {
		opts.Authenticator = session.NewSimulatedAuthenticator(session.DefaultSignInDelay)
	}
	if opts.Directory == nil {
		opts.Directory = directory.New(directory.DefaultURL, directory.DefaultTimeout)
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}
	return &Console{
		auth:          opts.Authenticator,
		dir:           opts.Directory,
		executors:     opts.Executors,
		ttl:           opts.NotificationTTL,
		now:           time.Now,
		lastSeen:      time.Now(),
		notifications: []Notification{},
		subs:          make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a value whenever the console
// changes, and a function that releases it.
func (c *Console) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()
	return ch, func() {
		c.subsMu.Lock()
		delete(c.subs, ch)
		c.subsMu.Unlock()
	}
}

// notifyChange does a non-blocking send to every subscriber.
// Must be called while NOT holding mu.
func (c *Console) notifyChange() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ============================================================
// Session gate
// ============================================================

// SignIn starts authenticating creds in the background and returns at once.
// A sign-in that is already pending is left running and the call is a no-op.
func (c *Console) SignIn(creds session.Credentials) error {
	c.mu.Lock()
	if c.session.Authenticated {
		c.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	if c.signInPending {
		c.mu.Unlock()
		return nil
	}
	c.signInGen++
	gen := c.signInGen
	ctx, cancel := context.WithCancel(context.Background())
	c.signInPending = true
	c.signInCancel = cancel
	c.mu.Unlock()
	c.notifyChange()

	go c.completeSignIn(ctx, gen, creds)
	return nil
}

func (c *Console) completeSignIn(ctx context.Context, gen uint64, creds session.Credentials) {
	user, err := c.auth.Authenticate(ctx, creds)

	c.mu.Lock()
	if gen != c.signInGen || !c.signInPending {
		c.mu.Unlock()
		slog.Debug("Discarding stale sign-in result", "component", "Console")
		return
	}
	c.signInPending = false
	c.signInCancel = nil
	if err != nil {
		c.pushNotificationLocked(i18n.T("toast.signin_failed.title"), i18n.T("toast.signin_failed.description"))
		c.mu.Unlock()
		slog.Warn("Sign-in failed", "email", creds.Email, "error", err, "component", "Auth")
		c.notifyChange()
		return
	}
	u := user
	c.session = session.Session{Authenticated: true, User: &u}
	c.pushNotificationLocked(i18n.T("toast.signin.title"), i18n.T("toast.signin.description"))
	c.mu.Unlock()

	slog.Info("User signed in", "email", user.Email, "component", "Auth")
	c.notifyChange()
}

// SignOut resets the session to signed out, cancels any pending sign-in and
// closes the open dialog.
func (c *Console) SignOut() {
	c.mu.Lock()
	wasSignedIn := c.session.Authenticated
	var email string
	if c.session.User != nil {
		email = c.session.User.Email
	}
	if c.signInCancel != nil {
		c.signInCancel()
		c.signInCancel = nil
	}
	c.signInGen++
	c.signInPending = false
	c.session = session.Session{}
	c.closeDialogLocked()
	c.pushNotificationLocked(i18n.T("toast.signout.title"), i18n.T("toast.signout.description"))
	c.mu.Unlock()

	if wasSignedIn {
		slog.Info("User signed out", "email", email, "component", "Auth")
	}
	c.notifyChange()
}

// Session returns the current session.
func (c *Console) Session() session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copySession(c.session)
}

// Authenticated reports whether a user is signed in.
func (c *Console) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Authenticated
}

// ============================================================
// Operation dialog
// ============================================================

// Open shows the dialog for kind, replacing any open dialog and its values,
// and starts loading the server directory for it.
func (c *Console) Open(kind operation.Kind) error {
	if !kind.Valid() {
		return operation.ErrUnknownKind
	}

	c.mu.Lock()
	if !c.session.Authenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	c.closeDialogLocked()
	c.dialogGen++
	ctx, cancel := context.WithCancel(context.Background())
	d := &dialog{
		id:      uuid.New().String(),
		gen:     c.dialogGen,
		kind:    kind,
		values:  operation.FormState{},
		loading: true,
		cancel:  cancel,
	}
	c.dialog = d
	c.mu.Unlock()

	slog.Debug("Operation dialog opened", "kind", kind, "dialog", d.id, "component", "Console")
	c.notifyChange()

	go c.loadServers(ctx, d.gen)
	return nil
}

func (c *Console) loadServers(ctx context.Context, gen uint64) {
	servers := c.dir.List(ctx)

	c.mu.Lock()
	if c.dialog == nil || c.dialog.gen != gen {
		c.mu.Unlock()
		slog.Debug("Discarding server list for closed dialog", "component", "Console")
		return
	}
	c.dialog.servers = servers
	c.dialog.loading = false
	c.mu.Unlock()
	c.notifyChange()
}

// Close hides the dialog and discards its values.
func (c *Console) Close() {
	c.mu.Lock()
	open := c.dialog != nil
	c.closeDialogLocked()
	c.mu.Unlock()
	if open {
		c.notifyChange()
	}
}

func (c *Console) closeDialogLocked() {
	if c.dialog == nil {
		return
	}
	c.dialog.cancel()
	c.dialog = nil
	c.dialogGen++
}

// SetField stores value under name in the open dialog's form state.
func (c *Console) SetField(name, value string) error {
	c.mu.Lock()
	if c.dialog == nil {
		c.mu.Unlock()
		return ErrNoOpenOperation
	}
	form, _ := operation.Render(c.dialog.kind, nil, false)
	if !form.Has(name) {
		c.mu.Unlock()
		return ErrUnknownField
	}
	c.dialog.values[name] = value
	c.mu.Unlock()
	c.notifyChange()
	return nil
}

// Submit hands the open dialog's values to the executor registered for its
// kind. The dialog closes only when the executor succeeds.
func (c *Console) Submit(ctx context.Context) error {
	c.mu.RLock()
	if c.dialog == nil {
		c.mu.RUnlock()
		return ErrNoOpenOperation
	}
	kind := c.dialog.kind
	gen := c.dialog.gen
	values := c.dialog.values.Clone()
	c.mu.RUnlock()

	if err := c.executors.Execute(ctx, kind, values); err != nil {
		if errors.Is(err, operation.ErrNotImplemented) {
			slog.Info("Submit ignored, no executor registered", "kind", kind, "component", "Console")
		} else {
			slog.Error("Operation failed", "kind", kind, "error", err, "component", "Console")
		}
		return err
	}

	c.mu.Lock()
	if c.dialog != nil && c.dialog.gen == gen {
		c.closeDialogLocked()
	}
	c.mu.Unlock()
	slog.Info("Operation submitted", "kind", kind, "component", "Console")
	c.notifyChange()
	return nil
}

// OpenKind returns the kind of the open dialog, or "" when none is open.
func (c *Console) OpenKind() operation.Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dialog == nil {
		return ""
	}
	return c.dialog.kind
}

// ============================================================
// Notifications
// ============================================================

func (c *Console) pushNotificationLocked(title, description string) {
	now := c.now()
	c.notifications = append(c.notifications, Notification{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   now.UTC(),
		ExpiresAt:   now.Add(c.ttl).UTC(),
	})
}

func (c *Console) activeNotificationsLocked(now time.Time) []Notification {
	out := make([]Notification, 0, len(c.notifications))
	for _, n := range c.notifications {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}

// ============================================================
// Snapshots and lifetime
// ============================================================

// Snapshot returns a copy of the console for JSON serialization. Expired
// notifications are dropped.
func (c *Console) Snapshot() SnapshotData {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notifications = c.activeNotificationsLocked(c.now())

	snap := SnapshotData{
		Session:       copySession(c.session),
		SignInPending: c.signInPending,
		Notifications: append([]Notification(nil), c.notifications...),
	}
	if snap.Notifications == nil {
		snap.Notifications = []Notification{}
	}
	if c.session.Authenticated {
		snap.Operations = operation.Launchers()
	}
	if c.dialog != nil {
		form, _ := operation.Render(c.dialog.kind, c.dialog.servers, c.dialog.loading)
		snap.Dialog = &DialogSnapshot{
			ID:             c.dialog.id,
			Kind:           c.dialog.kind,
			Form:           form,
			Values:         c.dialog.values.Clone(),
			LoadingServers: c.dialog.loading,
		}
	}
	return snap
}

// Touch records activity on the console.
func (c *Console) Touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

// LastSeen returns when the console was last touched.
func (c *Console) LastSeen() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}

// Shutdown cancels any background work owned by the console. Results that
// arrive afterwards are discarded.
func (c *Console) Shutdown() {
	c.mu.Lock()
	if c.signInCancel != nil {
		c.signInCancel()
		c.signInCancel = nil
	}
	c.signInGen++
	c.signInPending = false
	c.closeDialogLocked()
	c.mu.Unlock()
}

func copySession(s session.Session) session.Session {
	if s.User == nil {
		return session.Session{Authenticated: s.Authenticated}
	}
	u := *s.User
	return session.Session{Authenticated: s.Authenticated, User: &u}
}
