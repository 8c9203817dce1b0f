// Package operation describes the database lifecycle operations the console
// offers: which kinds exist, what each kind's form looks like, and how a
// submitted form is handed to an executor.
package operation

import (
	"errors"
	"fmt"

	"dbops-console/internal/i18n"
)

// Kind identifies one of the four operations.
type Kind string

const (
	Backup            Kind = "backup"
	CreateEnvironment Kind = "create"
	RemoveEnvironment Kind = "remove"
	Restore           Kind = "restore"
)

// ErrUnknownKind is returned by ParseKind for anything outside Kinds().
var ErrUnknownKind = errors.New("unknown operation kind")

// Kinds returns every kind in launcher order.
func Kinds() []Kind {
	return []Kind{Backup, CreateEnvironment, RemoveEnvironment, Restore}
}

// ParseKind converts a path or form value to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is one of the four kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k Kind) String() string { return string(k) }

// Title is the localised operation name.
func (k Kind) Title() string { return i18n.T("operation." + string(k) + ".title") }

// Description is the localised launcher card text.
func (k Kind) Description() string { return i18n.T("operation." + string(k) + ".description") }

// ActionText is the label of the dialog's submit button.
func (k Kind) ActionText() string { return i18n.T("operation." + string(k) + ".action") }

// Launcher is a card on the console that opens a kind's dialog.
type Launcher struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
}

// Launchers returns one card per kind.
func Launchers() []Launcher {
	out := make([]Launcher, 0, 4)
	for _, k := range Kinds() {
		out = append(out, Launcher{
			Kind:        k,
			Title:       k.Title(),
			Description: k.Description(),
			ButtonText:  i18n.T("operation.configure"),
		})
	}
	return out
}
