package middleware

import (
	"net/http"
	"strings"

	"noteful/internal/auth"
)

// Auth validates the bearer token and adds the caller's identity to the context
func Auth(issuer auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for public endpoints
			if isPublicEndpoint(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), claims.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"Unauthorized"}`))
}

func isPublicEndpoint(r *http.Request) bool {
	switch {
	case r.URL.Path == "/api/login" && r.Method == http.MethodPost:
		return true
	case r.URL.Path == "/api/users" && r.Method == http.MethodPost:
		return true
	case r.URL.Path == "/healthz":
		return true
	}
	return false
}
