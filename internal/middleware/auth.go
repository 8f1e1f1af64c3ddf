package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront-api/internal/model"
	"storefront-api/internal/token"
)

type tokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	verifier tokenVerifier
	users    userLoader
}

func NewAuthMiddleware(verifier tokenVerifier, users userLoader) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// Authenticate verifies the request token, loads the referenced user, and
// enforces the account-active and IP-binding checks before attaching the
// resolved identity to the request context. It performs no writes.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
			raw = strings.TrimSpace(after)
		}
		if raw == "" {
			writeAuthReject(w, http.StatusUnauthorized, "Authorization token is required")
			return
		}

		claims, err := m.verifier.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				writeAuthReject(w, http.StatusUnauthorized, "Authentication token has expired")
				return
			}
			writeAuthReject(w, http.StatusForbidden, "Failed to authenticate token")
			return
		}

		// The user may have been deleted or deactivated since issuance.
		user, err := m.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			writeAuthReject(w, http.StatusUnauthorized, "User not found or token is invalid")
			return
		}

		if !user.IsActive {
			writeAuthReject(w, http.StatusForbidden, "User account is not active")
			return
		}

		observedIP := extractClientIP(r)
		if claims.IP != "" && claims.IP != observedIP {
			writeAuthReject(w, http.StatusForbidden, "IP address mismatch")
			return
		}

		identity := &model.Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			RoleID:   user.RoleID,
			IP:       observedIP,
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles permits the request only when the resolved identity carries
// one of the allowed role IDs. Pure check, no I/O.
func (m *AuthMiddleware) RequireRoles(allowedRoleIDs ...int64) func(http.Handler) http.Handler {
	roleSet := map[int64]struct{}{}
	for _, id := range allowedRoleIDs {
		roleSet[id] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthReject(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if _, allowed := roleSet[identity.RoleID]; !allowed {
				writeAuthReject(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ObservedIP exposes the client IP derivation used during authentication so
// signin can bind issued tokens to the same address the middleware will
// later compare against.
func ObservedIP(r *http.Request) string {
	return extractClientIP(r)
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	return identity, ok
}

func writeAuthReject(w http.ResponseWriter, status int, message string) {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
