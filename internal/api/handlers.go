package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"noteful/internal/auth"
	"noteful/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handlers serves the Noteful REST API.
type Handlers struct {
	store  store.Store
	hasher auth.Hasher
	issuer auth.TokenIssuer
	log    zerolog.Logger
}

func NewHandlers(s store.Store, hasher auth.Hasher, issuer auth.TokenIssuer, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:  s,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

// Register adds every API route to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/refresh", h.Refresh)
	mux.HandleFunc("POST /api/users", h.CreateUser)

	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)

	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("PUT /api/folders/{id}", h.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)

	mux.HandleFunc("GET /api/tags", h.ListTags)
	mux.HandleFunc("POST /api/tags", h.CreateTag)
	mux.HandleFunc("GET /api/tags/{id}", h.GetTag)
	mux.HandleFunc("PUT /api/tags/{id}", h.UpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", h.DeleteTag)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes err using the API error taxonomy. Anything that is not
// an *apiError or a store sentinel is logged and reported as a bare 500.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, store.ErrNotFound):
		apiErr = errNotFound
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		apiErr = errInternal
	}
	respondJSON(w, apiErr.Status, apiErr)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && topField(typeErr.Field) == "tags" {
			if typeErr.Type != nil && typeErr.Type.Kind() == reflect.Slice {
				return badRequest("The `tags` must be an array")
			}
			return badRequest("The tags `id` is not valid")
		}
		return badRequest("Invalid request body")
	}
	return nil
}

// topField returns the first segment of a decoder field path such as "tags.1".
func topField(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

// callerID returns the authenticated user id placed in the context by the
// auth middleware.
func callerID(r *http.Request) (string, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok || id.ID == "" {
		return "", errUnauthorized
	}
	return id.ID, nil
}

// normalizeID parses s as a UUID and returns its canonical form.
func normalizeID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func pathID(r *http.Request) (string, error) {
	id, ok := normalizeID(r.PathValue("id"))
	if !ok {
		return "", badRequest("The `id` is not valid")
	}
	return id, nil
}
