package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Chrix-Dev/To-do-app/internal/httputil"
	"github.com/Chrix-Dev/To-do-app/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const currentUserContextKey ContextKey = "current_user"

// Middleware resolves the authenticated user for protected routes
type Middleware struct {
	tokenService TokenService
	userRepo     UserRepository
}

func NewMiddleware(tokenService TokenService, userRepo UserRepository) *Middleware {
	return &Middleware{
		tokenService: tokenService,
		userRepo:     userRepo,
	}
}

// RequireAuth validates the bearer token, loads the user it names and puts
// it in the request context. Any failure short-circuits with 401 before the
// wrapped handler runs.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// The subject is the user's email. A user deleted after issuance
		// fails here even though the token itself still verifies.
		currentUser, err := m.userRepo.GetByEmail(r.Context(), claims.Subject)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), currentUser)))
	})
}

// ContextWithUser returns a context carrying the authenticated user
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserContextKey, u)
}

// CurrentUser extracts the authenticated user from the request context
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(currentUserContextKey).(*user.User)
	return u, ok
}
