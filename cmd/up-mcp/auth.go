package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/shaunakg/up-mcp/internal/upbank"
)

// bearerFromRequest lifts a bearer token off the inbound streamable-HTTP
// request into the handler context. A caller-supplied token overrides the
// configured UP_API_TOKEN for that invocation only; without one the
// configured token applies.
func bearerFromRequest(ctx context.Context, r *http.Request) context.Context {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return upbank.ContextWithToken(ctx, token)
	}
	return ctx
}
