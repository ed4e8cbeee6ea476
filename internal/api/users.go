package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"noteful/internal/models"
	"noteful/internal/store"
)

const (
	minUsernameLength = 1
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

type registration struct {
	Username string
	Password string
	Fullname string
}

// parseRegistration applies the registration field checks in order:
// presence, type, surrounding whitespace, then length.
func parseRegistration(body map[string]json.RawMessage) (registration, error) {
	for _, field := range []string{"username", "password"} {
		if _, ok := body[field]; !ok {
			return registration{}, validationError(fmt.Sprintf("Missing '%s' in request body", field), field)
		}
	}

	values := map[string]string{}
	for _, field := range []string{"username", "password", "fullname"} {
		raw, ok := body[field]
		if !ok {
			continue
		}
		var s string
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return registration{}, validationError("Incorrect field type: expected string", field)
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return registration{}, validationError("Incorrect field type: expected string", field)
		}
		values[field] = s
	}

	for _, field := range []string{"username", "password"} {
		if strings.TrimSpace(values[field]) != values[field] {
			return registration{}, validationError("Cannot start or end with whitespace", field)
		}
	}

	switch {
	case len(values["username"]) < minUsernameLength:
		return registration{}, validationError(fmt.Sprintf("Field: 'username' must be at least %d characters long", minUsernameLength), "username")
	case len(values["password"]) < minPasswordLength:
		return registration{}, validationError(fmt.Sprintf("Field: 'password' must be at least %d characters long", minPasswordLength), "password")
	case len(values["password"]) > maxPasswordLength:
		return registration{}, validationError(fmt.Sprintf("Field: 'password' must be at most %d characters long", maxPasswordLength), "password")
	}

	return registration{
		Username: values["username"],
		Password: values["password"],
		Fullname: values["fullname"],
	}, nil
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		h.respondError(w, r, err)
		return
	}

	reg, err := parseRegistration(body)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	hash, err := h.hasher.Hash(reg.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user := &models.User{
		Username:     reg.Username,
		Fullname:     reg.Fullname,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			err = conflict("User name already exists")
		}
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.ID)
	respondJSON(w, http.StatusCreated, user)
}
