package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"showcase/internal/common"
	"showcase/internal/common/security"
	"showcase/internal/domain/model"
)

type contextKey string

const IdentityCtxKey contextKey = "identity"

// TokenFromAuthorization returns the second whitespace-delimited field of the
// Authorization header. The scheme word itself is not checked.
func TokenFromAuthorization(r *http.Request) string {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// Authenticator rejects requests that jwtauth.Verify could not resolve to a
// valid token and stores the caller's identity in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if errors.Is(err, jwtauth.ErrNoTokenFound) || (err == nil && token == nil) {
			common.RespondWithError(w, http.StatusUnauthorized, "Access token required")
			return
		}
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		identity, err := security.IdentityFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(model.Identity)
	return identity, ok
}
