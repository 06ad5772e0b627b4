package chi

import (
	"context"
	"net/http"
	"strings"
)

type botTokenKey struct{}

// botPrefix is the Authorization scheme used for directory bot tokens.
const botPrefix = "Bot "

// BotTokenMiddleware extracts a caller-supplied directory token from
// "Authorization: Bot <token>" into the request context. Other schemes and
// missing headers are ignored; the server then uses its own credentials.
func BotTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, botPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(auth[len(botPrefix):])
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), botTokenKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BotTokenFromContext returns the caller-supplied token, or "".
func BotTokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(botTokenKey{}).(string)
	return tok
}
