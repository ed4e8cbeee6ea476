package api

import (
	"errors"
	"net/http"

	"noteful/internal/auth"
	"noteful/internal/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(r, &c); err != nil {
		h.respondError(w, r, err)
		return
	}
	if c.Username == "" || c.Password == "" {
		h.respondError(w, r, errUnauthorized)
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), c.Username)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, r, errUnauthorized)
		return
	} else if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, c.Password); err != nil {
		h.respondError(w, r, errUnauthorized)
		return
	}

	h.issueToken(w, r, auth.IdentityOf(user))
}

// Refresh issues a new token for the bearer already verified by the auth middleware.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.respondError(w, r, errUnauthorized)
		return
	}
	h.issueToken(w, r, id)
}

func (h *Handlers) issueToken(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	token, err := h.issuer.Issue(id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}
