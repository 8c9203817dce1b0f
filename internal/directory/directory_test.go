package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestList_MapsManagedInstance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"managedInstance":"mi-east","location":"eastus"},{"managedInstance":"mi-west"}]`))
	}))
	defer srv.Close()

	got := New(srv.URL, time.Second).List(context.Background())
	want := []Entry{
		{ID: "mi-east", DisplayName: "mi-east"},
		{ID: "mi-west", DisplayName: "mi-west"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %+v, want %+v", got, want)
	}
}

func TestList_EmptyArrayIsNotAFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got := New(srv.URL, time.Second).List(context.Background())
	if len(got) != 0 {
		t.Fatalf("List() = %+v, want empty", got)
	}
}

func TestList_SendsAccessKey(t *testing.T) {
	var gotCode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.URL.Query().Get("code")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	New(srv.URL, time.Second, WithAccessKey("s3cret")).List(context.Background())
	if gotCode != "s3cret" {
		t.Fatalf("code = %q, want s3cret", gotCode)
	}
}

func TestList_FallbackOnFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`[{"managedInstance":"ignored"}]`))
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
		{"object instead of array", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"managedInstance":"x"}`))
		}},
		{"null body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}},
		{"null record", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"managedInstance":"sql-a"},null]`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			got := New(srv.URL, time.Second).List(context.Background())
			if !reflect.DeepEqual(got, Fallback()) {
				t.Fatalf("List() = %+v, want fallback", got)
			}
		})
	}
}

func TestList_NetworkFailureReturnsFallbackInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	got := New(endpoint, time.Second).List(context.Background())
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
		if e.DisplayName != e.ID {
			t.Errorf("entry %d: DisplayName %q != ID %q", i, e.DisplayName, e.ID)
		}
	}
	want := []string{"sql-prod-001", "sql-dev-001", "sql-test-001", "sql-staging-001"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestList_TimeoutReturnsFallback(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	got := New(srv.URL, 20*time.Millisecond).List(context.Background())
	if !reflect.DeepEqual(got, Fallback()) {
		t.Fatalf("List() = %+v, want fallback", got)
	}
}

func TestList_CancelledContextReturnsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"managedInstance":"x"}]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := New(srv.URL, time.Second).List(ctx)
	if !reflect.DeepEqual(got, Fallback()) {
		t.Fatalf("List() = %+v, want fallback", got)
	}
}

func TestFallback_ReturnsFreshSlice(t *testing.T) {
	a := Fallback()
	a[0].ID = "mutated"
	if Fallback()[0].ID != "sql-prod-001" {
		t.Fatal("Fallback() shares its backing array")
	}
}

func TestList_RecordWithoutInstanceIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{}]`))
	}))
	defer srv.Close()

	got := New(srv.URL, time.Second).List(context.Background())
	want := []Entry{{ID: "", DisplayName: ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %+v, want %+v", got, want)
	}
}
