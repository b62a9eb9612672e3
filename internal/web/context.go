package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/InstaDash/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}

// userID returns the user resolved by the UserID middleware.
func userID(r *http.Request) string {
	return core.UserIDFromContext(r.Context())
}
