package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerFromRequest_OverridesConfiguredToken(t *testing.T) {
	mockUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer caller-token" {
			t.Errorf("Expected caller bearer forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"meta": map[string]string{"id": "ping"}})
	}))
	defer mockUpstream.Close()

	inbound, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	inbound.Header.Set("Authorization", "Bearer caller-token")
	ctx := bearerFromRequest(context.Background(), inbound)

	b := testBridge(t, mockUpstream.URL)
	if _, err := b.client.Ping(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestBearerFromRequest_NoHeaderKeepsConfiguredToken(t *testing.T) {
	mockUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer up:yeah:testtoken" {
			t.Errorf("Expected configured bearer, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"meta": map[string]string{"id": "ping"}})
	}))
	defer mockUpstream.Close()

	inbound, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	ctx := bearerFromRequest(context.Background(), inbound)

	b := testBridge(t, mockUpstream.URL)
	if _, err := b.client.Ping(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestBearerFromRequest_IgnoresNonBearerSchemes(t *testing.T) {
	inbound, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	inbound.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	ctx := bearerFromRequest(context.Background(), inbound)
	if ctx != context.Background() {
		t.Error("Non-bearer Authorization should leave the context untouched")
	}
}
