package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"noteful/internal/models"
	"noteful/internal/store"

	"github.com/google/uuid"
)

func (s *SQLStore) ListTags(ctx context.Context, ownerID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind("SELECT id, name, user_id, created_at, updated_at FROM tags WHERE user_id = ? ORDER BY name ASC"), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *SQLStore) GetTag(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id, name, user_id, created_at, updated_at FROM tags WHERE id = ? AND user_id = ?"), id, ownerID).
		Scan(&t.ID, &t.Name, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// CountTags returns how many of ids name tags owned by ownerID.
func (s *SQLStore) CountTags(ctx context.Context, ids []string, ownerID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}

	var count int
	query := "SELECT COUNT(*) FROM tags WHERE user_id = ? AND id IN (" + placeholders(len(ids)) + ")"
	if err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLStore) CreateTag(ctx context.Context, t *models.Tag) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, s.rebind("INSERT INTO tags (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		t.ID, t.UserID, t.Name, t.CreatedAt, t.UpdatedAt)
	return translate(err)
}

func (s *SQLStore) UpdateTag(ctx context.Context, t *models.Tag) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, s.rebind("UPDATE tags SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
		t.Name, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return translate(err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTag removes the tag and drops it from the tag set of the owner's notes.
func (s *SQLStore) DeleteTag(ctx context.Context, id, ownerID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind("DELETE FROM tags WHERE id = ? AND user_id = ?"), id, ownerID)
		if err != nil {
			return err
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return store.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, s.rebind("DELETE FROM note_tags WHERE tag_id = ? AND note_id IN (SELECT id FROM notes WHERE user_id = ?)"), id, ownerID)
		return err
	})
}
