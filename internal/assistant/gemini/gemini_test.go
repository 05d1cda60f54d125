package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"condo/internal/assistant"
)

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(context.Background(), "  ", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if key := r.Header.Get("x-goog-api-key"); key != "test-key" {
			t.Errorf("api key header = %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"La alberca abre "},{"text":"de 9 AM a 9 PM."}]}}]}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), "test-key", "", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	text, err := c.Generate(context.Background(), assistant.Request{
		Prompt:            "¿A qué hora abre la alberca?",
		SystemInstruction: "Eres un asistente.",
		Temperature:       0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if text != "La alberca abre de 9 AM a 9 PM." {
		t.Fatalf("text = %q", text)
	}
	if !strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent") {
		t.Fatalf("unexpected path %s", path)
	}
	cfg, _ := got["generationConfig"].(map[string]any)
	if cfg["temperature"] != 0.5 {
		t.Fatalf("temperature not sent: %v", got["generationConfig"])
	}
	if _, ok := got["systemInstruction"]; !ok {
		t.Fatal("system instruction not sent")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(context.Background(), "k", "gemini-2.5-flash", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.Generate(context.Background(), assistant.Request{Prompt: "hola"}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
