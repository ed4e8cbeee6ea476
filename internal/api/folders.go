package api

import (
	"errors"
	"net/http"

	"noteful/internal/models"
	"noteful/internal/store"
)

// nameRequest is the body of folder and tag writes.
type nameRequest struct {
	Name *string `json:"name"`
}

func (req nameRequest) validate() error {
	if req.Name == nil || *req.Name == "" {
		return badRequest("Missing `name` in request body")
	}
	return nil
}

func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	folders, err := h.store.ListFolders(r.Context(), ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, folders)
}

func (h *Handlers) GetFolder(w http.ResponseWriter, r *http.Request) {
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

	folder, err := h.store.GetFolder(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
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

	folder := &models.Folder{Name: *req.Name, UserID: ownerID}
	if err := h.store.CreateFolder(r.Context(), folder); err != nil {
		h.respondError(w, r, folderError(err))
		return
	}

	w.Header().Set("Location", "/api/folders/"+folder.ID)
	respondJSON(w, http.StatusCreated, folder)
}

func (h *Handlers) UpdateFolder(w http.ResponseWriter, r *http.Request) {
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

	folder, err := h.store.GetFolder(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	folder.Name = *req.Name
	if err := h.store.UpdateFolder(r.Context(), folder); err != nil {
		h.respondError(w, r, folderError(err))
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

// DeleteFolder removes the folder; notes that were filed in it stay, unfiled.
func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
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

	if err := h.store.DeleteFolder(r.Context(), id, ownerID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func folderError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return badRequest("Folder name already exists")
	}
	return err
}
