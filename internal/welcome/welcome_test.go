package welcome

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStaticWelcome(t *testing.T) {
	p := &Static{Name: "greeter"}

	text, err := p.Welcome(context.Background(), "dev", "alice")
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if text != "alice, welcome to dev" {
		t.Fatalf("text = %q", text)
	}
	if p.Persona() != "greeter" {
		t.Fatalf("persona = %q", p.Persona())
	}
}

func TestRemoteWelcome(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"facts":["cats sleep a lot","second fact"]}`))
	}))
	defer ts.Close()

	p := &Remote{Name: "facts", URL: ts.URL, Timeout: time.Second}

	text, err := p.Welcome(context.Background(), "dev", "alice")
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if !strings.HasPrefix(text, "alice, did you know...") || !strings.Contains(text, "cats sleep a lot") {
		t.Fatalf("text = %q", text)
	}
}

func TestRemoteWelcomeFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		p := &Remote{Name: "facts", URL: ts.URL}
		if _, err := p.Welcome(context.Background(), "dev", "alice"); err == nil {
			t.Fatal("expected error for 503 response")
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer ts.Close()

		p := &Remote{Name: "facts", URL: ts.URL}
		if _, err := p.Welcome(context.Background(), "dev", "alice"); err == nil {
			t.Fatal("expected error for undecodable payload")
		}
	})

	t.Run("empty facts", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"facts":[]}`))
		}))
		defer ts.Close()

		p := &Remote{Name: "facts", URL: ts.URL}
		text, err := p.Welcome(context.Background(), "dev", "alice")
		if err != nil {
			t.Fatalf("welcome: %v", err)
		}
		if text != "" {
			t.Fatalf("text = %q, want empty", text)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer ts.Close()

		p := &Remote{Name: "facts", URL: ts.URL, Timeout: 20 * time.Millisecond}
		if _, err := p.Welcome(context.Background(), "dev", "alice"); err == nil {
			t.Fatal("expected timeout error")
		}
	})
}
