package api

import (
	"context"
	"errors"

	"noteful/internal/store"
)

// validateFolderOwnership checks that folderID names a folder owned by
// ownerID and returns it in canonical form. An empty id means "no folder".
func (h *Handlers) validateFolderOwnership(ctx context.Context, folderID, ownerID string) (string, error) {
	if folderID == "" {
		return "", nil
	}
	id, ok := normalizeID(folderID)
	if !ok {
		return "", badRequest("The `folderId` is not valid")
	}
	if _, err := h.store.GetFolder(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", badRequest("The `folderId` is not valid")
		}
		return "", err
	}
	return id, nil
}

// validateTagOwnership checks that every id in tagIDs is well formed and
// names a tag owned by ownerID. A nil slice means the field was absent.
func (h *Handlers) validateTagOwnership(ctx context.Context, tagIDs []string, ownerID string) ([]string, error) {
	if tagIDs == nil {
		return nil, nil
	}
	ids, err := parseTagIDs(tagIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	count, err := h.store.CountTags(ctx, ids, ownerID)
	if err != nil {
		return nil, err
	}
	if count != len(ids) {
		return nil, badRequest("The `tags` array contains an invalid id")
	}
	return ids, nil
}

func parseTagIDs(tagIDs []string) ([]string, error) {
	ids := make([]string, 0, len(tagIDs))
	for _, raw := range tagIDs {
		id, ok := normalizeID(raw)
		if !ok {
			return nil, badRequest("The tags `id` is not valid")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
