// Package eventlog holds the console's activity history.
package eventlog

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the outcome recorded for an event.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// FilterAll selects every event.
const FilterAll = "all"

// ErrUnknownStatus is returned by ParseFilter for values outside the filter set.
var ErrUnknownStatus = errors.New("unknown event status")

// Label is the capitalised status shown on badges.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Event is one activity log entry.
type Event struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Status    Status `json:"status"`
	Details   string `json:"details"`
}

// Filter selects events by status. The zero value selects all.
type Filter struct {
	status Status
}

// ParseFilter accepts "all", "" or one of the four statuses.
func ParseFilter(s string) (Filter, error) {
	switch Status(s) {
	case "", FilterAll:
		return Filter{}, nil
	case StatusSuccess, StatusWarning, StatusError, StatusInfo:
		return Filter{status: Status(s)}, nil
	}
	return Filter{}, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// FilterOptions lists the filter values in display order.
func FilterOptions() []string {
	return []string{FilterAll, string(StatusSuccess), string(StatusWarning), string(StatusError), string(StatusInfo)}
}

func (f Filter) String() string {
	if f.status == "" {
		return FilterAll
	}
	return string(f.status)
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	return f.status == "" || e.Status == f.status
}

// Log is a read-only, ordered set of events.
type Log struct {
	events []Event
}

// New returns a log over events, most recent first.
func New(events []Event) *Log {
	cp := make([]Event, len(events))
	copy(cp, events)
	return &Log{events: cp}
}

// Seeded returns a log holding the built-in history.
func Seeded() *Log {
	return New(seed)
}

// Filter returns the events matching f, preserving order. The result is a copy.
func (l *Log) Filter(f Filter) []Event {
	out := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of events.
func (l *Log) Len() int { return len(l.events) }

var seed = []Event{
	{
		ID:        "1",
		Timestamp: "2024-01-30 14:23:15",
		Actor:     "john.doe@company.com",
		Action:    "Database Backup",
		Status:    StatusSuccess,
		Details:   "Successfully backed up production database to Azure Blob Storage",
	},
	{
		ID:        "2",
		Timestamp: "2024-01-30 13:45:22",
		Actor:     "admin@company.com",
		Action:    "Create New Environment",
		Status:    StatusSuccess,
		Details:   "Created new DTS environment for user test.user@company.com",
	},
	{
		ID:        "3",
		Timestamp: "2024-01-30 12:15:08",
		Actor:     "jane.smith@company.com",
		Action:    "Environment Removal",
		Status:    StatusWarning,
		Details:   "Removed development environment - backup retained for 7 days",
	},
	{
		ID:        "4",
		Timestamp: "2024-01-30 11:32:45",
		Actor:     "admin@company.com",
		Action:    "Database Restore",
		Status:    StatusError,
		Details:   "Failed to restore database - backup file corrupted",
	},
}
