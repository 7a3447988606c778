package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	ContextKeyAPIKey contextKey = "similarweb_api_key"

	APIKeyHeader = "X-API-Key"
)

// APIKeyMiddleware copia a chave da Similarweb enviada pelo usuário para o
// contexto. A validação fica com o caso de uso, que devolve o erro adequado.
func APIKeyMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := strings.TrimSpace(r.Header.Get(APIKeyHeader))

			if apiKey == "" {
				authHeader := r.Header.Get("Authorization")
				if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
					apiKey = strings.TrimSpace(token)
				}
			}

			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIKeyFromContext retorna a chave enviada na requisição, ou vazio
func APIKeyFromContext(ctx context.Context) string {
	apiKey, _ := ctx.Value(ContextKeyAPIKey).(string)
	return apiKey
}
