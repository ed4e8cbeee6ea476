package api

import (
	"errors"
	"net/http"

	"noteful/internal/models"
	"noteful/internal/store"
)

// noteRequest is the body of POST and PUT /api/notes. Nil fields were not sent.
type noteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	FolderID *string   `json:"folderId"`
	Tags     *[]string `json:"tags"`
}

// refs validates the folder and tag references of req against ownerID and
// returns their canonical ids.
func (h *Handlers) refs(r *http.Request, req noteRequest, ownerID string) (folderID string, tagIDs []string, err error) {
	if req.Tags != nil {
		if tagIDs, err = parseTagIDs(*req.Tags); err != nil {
			return "", nil, err
		}
	}
	if req.FolderID != nil {
		if folderID, err = h.validateFolderOwnership(r.Context(), *req.FolderID, ownerID); err != nil {
			return "", nil, err
		}
	}
	if req.Tags != nil {
		if tagIDs, err = h.validateTagOwnership(r.Context(), tagIDs, ownerID); err != nil {
			return "", nil, err
		}
	}
	return folderID, tagIDs, nil
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := store.NoteFilter{SearchTerm: q.Get("searchTerm")}
	if v := q.Get("folderId"); v != "" {
		id, ok := normalizeID(v)
		if !ok {
			h.respondError(w, r, badRequest("The `folderId` is not valid"))
			return
		}
		filter.FolderID = id
	}
	if v := q.Get("tagId"); v != "" {
		id, ok := normalizeID(v)
		if !ok {
			h.respondError(w, r, badRequest("The `tagId` is not valid"))
			return
		}
		filter.TagID = id
	}

	notes, err := h.store.ListNotes(r.Context(), ownerID, filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
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

	note, err := h.store.GetNote(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		h.respondError(w, r, badRequest("Missing `title` in request body"))
		return
	}

	folderID, tagIDs, err := h.refs(r, req, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	note := &models.Note{
		Title:    *req.Title,
		FolderID: folderID,
		TagIDs:   tagIDs,
		UserID:   ownerID,
	}
	if req.Content != nil {
		note.Content = *req.Content
	}

	if err := h.store.CreateNote(r.Context(), note); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/notes/"+note.ID)
	respondJSON(w, http.StatusCreated, note)
}

// UpdateNote applies the fields present in the body; a folderId of "" clears
// the folder and tags replaces the whole tag set.
func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
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

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Title != nil && *req.Title == "" {
		h.respondError(w, r, badRequest("Missing `title` in request body"))
		return
	}

	folderID, tagIDs, err := h.refs(r, req, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	note, err := h.store.GetNote(r.Context(), id, ownerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.FolderID != nil {
		note.FolderID = folderID
	}
	if req.Tags != nil {
		note.TagIDs = tagIDs
	}

	if err := h.store.UpdateNote(r.Context(), note); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
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

	if err := h.store.DeleteNote(r.Context(), id, ownerID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
