package enhance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harborlabs/medcatalog-backend/pkg/config"
)

type failingEnhancer struct{ err error }

func (f failingEnhancer) Enhance(context.Context, string, string) (string, error) {
	return "", f.err
}

type staticEnhancer struct{ out string }

func (s staticEnhancer) Enhance(context.Context, string, string) (string, error) {
	return s.out, nil
}

func TestTolerantFallsBackOnError(t *testing.T) {
	tol := NewTolerant(failingEnhancer{err: errors.New("quota exceeded")}, nil)

	got, err := tol.Enhance(context.Background(), "Gauze", "Sterile 4x4")
	if err != nil {
		t.Fatalf("tolerant enhancer must never error, got %v", err)
	}
	if got != "Sterile 4x4" {
		t.Fatalf("expected original description back, got %q", got)
	}
}

func TestTolerantFallsBackOnEmptyResult(t *testing.T) {
	tol := NewTolerant(staticEnhancer{out: ""}, nil)

	got, err := tol.Enhance(context.Background(), "Gauze", "original")
	if err != nil || got != "original" {
		t.Fatalf("expected original on empty result, got %q err=%v", got, err)
	}
}

func TestTolerantPassesThroughResult(t *testing.T) {
	tol := NewTolerant(staticEnhancer{out: "A sterile 4x4 gauze pad."}, nil)

	got, err := tol.Enhance(context.Background(), "Gauze", "Sterile 4x4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A sterile 4x4 gauze pad." {
		t.Fatalf("expected backend result, got %q", got)
	}
}

func TestFromConfigWithoutKeyIsPassthrough(t *testing.T) {
	enh := FromConfig(config.OpenAIConfig{}, nil)

	got, err := enh.Enhance(context.Background(), "Gauze", "keep me")
	if err != nil || got != "keep me" {
		t.Fatalf("expected passthrough, got %q err=%v", got, err)
	}
}

func TestClientEnhance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" A sterile 4x4 gauze pad. "}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := client.Enhance(context.Background(), "Gauze", "Sterile 4x4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A sterile 4x4 gauze pad." {
		t.Fatalf("expected trimmed completion, got %q", got)
	}
}

func TestClientEnhanceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Enhance(context.Background(), "Gauze", "Sterile 4x4"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for blank key")
	}
}
