package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"noteful/internal/models"
	"noteful/internal/store"

	"github.com/google/uuid"
)

func (s *SQLStore) ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind("SELECT id, name, user_id, created_at, updated_at FROM folders WHERE user_id = ? ORDER BY name ASC"), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.UserID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *SQLStore) GetFolder(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	var f models.Folder
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id, name, user_id, created_at, updated_at FROM folders WHERE id = ? AND user_id = ?"), id, ownerID).
		Scan(&f.ID, &f.Name, &f.UserID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *SQLStore) CreateFolder(ctx context.Context, f *models.Folder) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, s.rebind("INSERT INTO folders (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		f.ID, f.UserID, f.Name, f.CreatedAt, f.UpdatedAt)
	return translate(err)
}

func (s *SQLStore) UpdateFolder(ctx context.Context, f *models.Folder) error {
	f.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, s.rebind("UPDATE folders SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
		f.Name, f.UpdatedAt, f.ID, f.UserID)
	if err != nil {
		return translate(err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteFolder removes the folder and clears it from the owner's notes.
// The notes themselves are kept.
func (s *SQLStore) DeleteFolder(ctx context.Context, id, ownerID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind("DELETE FROM folders WHERE id = ? AND user_id = ?"), id, ownerID)
		if err != nil {
			return err
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return store.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, s.rebind("UPDATE notes SET folder_id = NULL WHERE folder_id = ? AND user_id = ?"), id, ownerID)
		return err
	})
}
