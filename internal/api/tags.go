package api

import (
	"errors"
	"net/http"

	"noteful/internal/models"
	"noteful/internal/store"
)

func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	tags, err := h.store.ListTags(r.Context(), ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (h *Handlers) GetTag(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	tag, err := h.store.GetTag(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(w, r, err)
		return
	}

	tag := &models.Tag{Name: *req.Name, UserID: ownerID}
	if err := h.store.CreateTag(r.Context(), tag); err != nil {
		h.respondError(w, r, tagError(err))
		return
	}

	w.Header().Set("Location", "/api/tags/"+tag.ID)
	respondJSON(w, http.StatusCreated, tag)
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.respondError(w, r, err)
		return
	}

	tag, err := h.store.GetTag(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	tag.Name = *req.Name
	if err := h.store.UpdateTag(r.Context(), tag); err != nil {
		h.respondError(w, r, tagError(err))
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// DeleteTag removes the tag and drops it from every note that carried it.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.store.DeleteTag(r.Context(), id, ownerID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func tagError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return badRequest("Tag name already exists")
	}
	return err
}
