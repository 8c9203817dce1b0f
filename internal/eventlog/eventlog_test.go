package eventlog

import (
	"errors"
	"testing"
)

func ids(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	log := Seeded()
	cases := []struct {
		filter string
		want   []string
	}{
		{"all", []string{"1", "2", "3", "4"}},
		{"", []string{"1", "2", "3", "4"}},
		{"success", []string{"1", "2"}},
		{"warning", []string{"3"}},
		{"error", []string{"4"}},
		{"info", []string{}},
	}
	for _, tc := range cases {
		f, err := ParseFilter(tc.filter)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", tc.filter, err)
		}
		got := ids(log.Filter(f))
		if len(got) != len(tc.want) {
			t.Errorf("Filter(%q) = %v, want %v", tc.filter, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Filter(%q) = %v, want %v", tc.filter, got, tc.want)
				break
			}
		}
	}
}

func TestFilter_ErrorEvent(t *testing.T) {
	f, _ := ParseFilter("error")
	got := Seeded().Filter(f)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Action != "Database Restore" || got[0].Details != "Failed to restore database - backup file corrupted" {
		t.Fatalf("event = %+v", got[0])
	}
}

func TestFilter_ReturnsCopy(t *testing.T) {
	log := Seeded()
	got := log.Filter(Filter{})
	got[0].Action = "mutated"
	if log.Filter(Filter{})[0].Action != "Database Backup" {
		t.Fatal("Filter exposes internal storage")
	}
}

func TestParseFilter_Unknown(t *testing.T) {
	if _, err := ParseFilter("critical"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("err = %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusWarning.Label(); got != "Warning" {
		t.Fatalf("Label() = %q", got)
	}
}

func TestFilterString(t *testing.T) {
	f, _ := ParseFilter("info")
	if f.String() != "info" {
		t.Errorf("String() = %q", f.String())
	}
	if (Filter{}).String() != "all" {
		t.Errorf("zero filter String() = %q", (Filter{}).String())
	}
}
