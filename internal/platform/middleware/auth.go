package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"visadesk/pkg/requestcontext"
)

// AgentValidator validates bearer tokens and returns the agent they name.
type AgentValidator interface {
	ValidateToken(tokenString string) (*AgentClaims, error)
}

// AgentClaims is the subset of token claims the transport layer needs.
type AgentClaims struct {
	Agent string
	JTI   string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if errDesc == "" {
		_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s"}`, errCode))
		return
	}
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAgent authenticates the request with a bearer token and stores the
// agent name on the context.
func RequireAgent(validator AgentValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithAgent(ctx, claims.Agent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DefaultAgent attributes anonymous requests to a fixed agent name. It is
// used when no signing key is configured.
func DefaultAgent(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.Agent(ctx) == "" {
				ctx = requestcontext.WithAgent(ctx, name)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
