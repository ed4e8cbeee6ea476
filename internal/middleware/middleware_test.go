package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"noteful/internal/auth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(id.Username))
	})
}

func TestAuth(t *testing.T) {
	issuer := auth.NewJWTIssuer("secret", time.Hour)
	token, err := issuer.Issue(auth.Identity{ID: "u1", Username: "alice"})
	require.NoError(t, err)
	handler := Auth(issuer)(echoIdentity())

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
		body   string
	}{
		{"valid token", http.MethodGet, "/api/notes", "Bearer " + token, http.StatusOK, "alice"},
		{"missing header", http.MethodGet, "/api/notes", "", http.StatusUnauthorized, `{"message":"Unauthorized"}`},
		{"wrong scheme", http.MethodGet, "/api/notes", "Basic " + token, http.StatusUnauthorized, `{"message":"Unauthorized"}`},
		{"bad token", http.MethodGet, "/api/notes", "Bearer nope", http.StatusUnauthorized, `{"message":"Unauthorized"}`},
		{"login is public", http.MethodPost, "/api/login", "", http.StatusOK, "anonymous"},
		{"register is public", http.MethodPost, "/api/users", "", http.StatusOK, "anonymous"},
		{"refresh needs token", http.MethodPost, "/api/refresh", "", http.StatusUnauthorized, `{"message":"Unauthorized"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/api/notes"`)
}
