package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type contextKey string

const LoginKey contextKey = "login"

// RefreshHeader carries a renewed token once the presented one is past half
// of its lifetime.
const RefreshHeader = "X-Refreshed-Token"

// BearerMiddleware guards plain chi routes with the same tokens HandleLogin issues.
func (h *AuthHandler) BearerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
			return
		}

		login, exp, err := h.ParseToken(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		// Sliding session
		if exp.Sub(h.now()) < TokenDuration/2 {
			if fresh, err := h.GenerateToken(login); err == nil {
				w.Header().Set(RefreshHeader, fresh)
			}
		}

		ctx := context.WithValue(r.Context(), LoginKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginKey).(string)
	return login, ok
}

// HumaMiddleware rejects operations without a valid bearer token and exposes
// the login through LoginFromContext.
func (h *AuthHandler) HumaMiddleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		login, err := h.Authorize(ctx.Context(), ctx.Header("Authorization"))
		if err != nil {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(huma.WithValue(ctx, LoginKey, login))
	}
}
