// internal/auth/middleware.go
// Bearer-token middleware. Token issuance lives in the external identity
// subsystem; the engine only verifies tokens and extracts the acting member,
// so every operation receives an explicit actor id instead of ambient
// session state.

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/theloveculture/tlc-backend/internal/common/utils"
)

// ContextKeyMemberID is the request-context key carrying the authenticated
// member's id.
type contextKey string

const ContextKeyMemberID contextKey = "memberID"

// Middleware provides authentication middleware
type Middleware struct {
	secret string
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: secret}
}

// Authenticate is the main middleware function that protects routes
// It verifies the JWT token and adds the member id to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(token, m.secret)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Refresh tokens cannot be used to call the API
		if claims.Type != "" && claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyMemberID, claims.MemberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MemberID extracts the authenticated member id from a request context.
func MemberID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeyMemberID).(string)
	return id, ok && id != ""
}

// extractToken pulls the bearer token out of the Authorization header
func (m *Middleware) extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
