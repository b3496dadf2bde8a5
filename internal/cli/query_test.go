package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryCommandPrintsResult(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"query", "https://a.com", "--endpoint", srv.URL + "/", "--token", "tok", "--compact"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if strings.TrimSpace(out.String()) != `{"status":404,"data":{"error":"not found"}}` {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestQueryCommandVerboseLogsToStderr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"formatted":{"data_signature":"s"},"raw":{}}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"query", "https://a.com", "--endpoint", srv.URL, "-v"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not json: %v", err)
	}
	if !strings.Contains(errOut.String(), `"msg":"inlink query"`) {
		t.Fatalf("expected debug log on stderr, got %q", errOut.String())
	}
}

func TestQueryCommandFailsOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"query", "https://a.com", "--endpoint", srv.URL})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected error for non-json body")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed on failure, got %q", out.String())
	}
}

func TestQueryCommandIgnoresWatcherSettings(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	t.Setenv("INLINK_API_TOKEN", "from-env")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"error":"x"}`))
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"query", "https://a.com", "--endpoint", srv.URL})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gotAuth != "Bearer from-env" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestQueryCommandRequiresURL(t *testing.T) {
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs([]string{"query"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected argument error")
	}
}
