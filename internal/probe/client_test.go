package probe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HenriqueAssisDev/TCC-II/internal/probe"
)

func TestHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", "1048576")
	}))
	defer srv.Close()

	info, err := probe.NewClient(nil, "test").Head(context.Background(), srv.URL+"/x.exe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size != 1048576 {
		t.Errorf("expected size 1048576, got %d", info.Size)
	}
	if info.ContentType != "application/octet-stream" {
		t.Errorf("unexpected content type %q", info.ContentType)
	}
}

func TestHead_fallsBackToGet(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	info, err := probe.NewClient(nil, "").Head(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(methods) != 2 || methods[1] != http.MethodGet {
		t.Errorf("expected HEAD then GET, got %v", methods)
	}
	if info.Size != 4 {
		t.Errorf("expected size 4, got %d", info.Size)
	}
}

func TestHead_notFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	info, err := probe.NewClient(nil, "").Head(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if info.StatusCode != http.StatusNotFound {
		t.Errorf("expected status to be reported, got %d", info.StatusCode)
	}
}

func TestReachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	c := probe.NewClient(nil, "")

	if err := c.Reachable(context.Background(), url); err != nil {
		t.Errorf("any answer counts as reachable: %v", err)
	}
	srv.Close()
	if err := c.Reachable(context.Background(), url); err == nil {
		t.Error("expected error for a closed server")
	}
}
