// Package bearer authenticates requests by their Authorization header and
// puts the token claims on the request context.
package bearer

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"eventxplore/internal/lib/api/response"
	"eventxplore/internal/lib/logger/sl"
	"eventxplore/internal/stubserver/token"
)

type ctxKey struct{}

func New(log *slog.Logger, issuer token.Issuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}

			if raw == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing bearer token"))

				return
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				log.Debug("rejected bearer token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func Claims(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*token.Claims)

	return c, ok
}
