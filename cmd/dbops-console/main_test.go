package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs a fresh command tree with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbops-console.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEventsCommand(t *testing.T) {
	out, err := executeCommand(t, "events")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	for _, want := range []string{"Database Backup", "Create New Environment", "Environment Removal", "Database Restore"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, "events", "--status", "error")
	if err != nil {
		t.Fatalf("events --status error: %v", err)
	}
	if !strings.Contains(out, "Database Restore") || strings.Contains(out, "Database Backup") {
		t.Errorf("filtered output:\n%s", out)
	}
	if !strings.Contains(out, "Error") {
		t.Errorf("status label missing:\n%s", out)
	}
}

func TestEventsCommand_BadStatus(t *testing.T) {
	if _, err := executeCommand(t, "events", "--status", "bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDirectoryList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"managedInstance":"mi-one"},{"managedInstance":"mi-two"}]`))
	}))
	defer srv.Close()

	cfg := writeConfig(t, "directory:\n  url: "+srv.URL+"\n  access_key: abc\n  timeout: 2s\n")
	out, err := executeCommand(t, "--config", cfg, "directory", "list")
	if err != nil {
		t.Fatalf("directory list: %v", err)
	}
	if out != "mi-one\nmi-two\n" {
		t.Errorf("output = %q", out)
	}
}

func TestDirectoryList_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := writeConfig(t, "directory:\n  url: "+srv.URL+"\n")
	out, err := executeCommand(t, "--config", cfg, "directory", "list")
	if err != nil {
		t.Fatalf("directory list: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 4 {
		t.Errorf("fallback lines = %d, want 4:\n%s", len(lines), out)
	}
}

func TestConfigWrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "written.yaml")
	out, err := executeCommand(t, "--log-level", "debug", "config", "write", "--path", dest)
	if err != nil {
		t.Fatalf("config write: %v", err)
	}
	if strings.TrimSpace(out) != dest {
		t.Errorf("output = %q, want %q", out, dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "DEBUG") {
		t.Errorf("flag value not written:\n%s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "WARNING": "WARN", "error": "ERROR", "nonsense": "INFO"}
	for in, want := range cases {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
