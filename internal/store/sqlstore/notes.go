package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"noteful/internal/models"
	"noteful/internal/store"

	"github.com/google/uuid"
)

const noteColumns = "id, title, content, folder_id, user_id, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (models.Note, error) {
	var n models.Note
	var folderID sql.NullString
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &folderID, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return n, err
	}
	n.FolderID = folderID.String
	return n, nil
}

// escapeLike escapes LIKE wildcards so the term matches as a plain substring.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func (s *SQLStore) ListNotes(ctx context.Context, ownerID string, filter store.NoteFilter) ([]models.Note, error) {
	conds := []string{"user_id = ?"}
	args := []any{ownerID}

	if filter.SearchTerm != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.SearchTerm)) + "%"
		conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.FolderID != "" {
		conds = append(conds, "folder_id = ?")
		args = append(args, filter.FolderID)
	}
	if filter.TagID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.id AND nt.tag_id = ?)")
		args = append(args, filter.TagID)
	}

	query := "SELECT " + noteColumns + " FROM notes WHERE " + strings.Join(conds, " AND ") + " ORDER BY updated_at DESC, id ASC"
	notes, err := s.queryNotes(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, notes, ownerID); err != nil {
		return nil, err
	}
	return notes, nil
}

// queryNotes drains the result set before returning so the connection is
// free for follow-up queries.
func (s *SQLStore) queryNotes(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// loadTags fills Tags and TagIDs of every note in place.
func (s *SQLStore) loadTags(ctx context.Context, notes []models.Note, ownerID string) error {
	if len(notes) == 0 {
		return nil
	}

	args := make([]any, 0, len(notes)+1)
	args = append(args, ownerID)
	index := make(map[string]int, len(notes))
	for i := range notes {
		notes[i].Tags = []models.Tag{}
		notes[i].TagIDs = []string{}
		index[notes[i].ID] = i
		args = append(args, notes[i].ID)
	}

	query := `SELECT nt.note_id, t.id, t.name, t.user_id, t.created_at, t.updated_at
		FROM note_tags nt JOIN tags t ON t.id = nt.tag_id
		WHERE t.user_id = ? AND nt.note_id IN (` + placeholders(len(notes)) + `)
		ORDER BY t.name ASC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var noteID string
		var t models.Tag
		if err := rows.Scan(&noteID, &t.ID, &t.Name, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		i := index[noteID]
		notes[i].Tags = append(notes[i].Tags, t)
		notes[i].TagIDs = append(notes[i].TagIDs, t.ID)
	}
	return rows.Err()
}

func (s *SQLStore) GetNote(ctx context.Context, id, ownerID string) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?"), id, ownerID)
	n, err := scanNote(row)
	if err != nil {
		return nil, translate(err)
	}

	notes := []models.Note{n}
	if err := s.loadTags(ctx, notes, ownerID); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

func (s *SQLStore) insertNoteTags(ctx context.Context, tx *sql.Tx, noteID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, s.rebind("INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)"), noteID, tagID); err != nil {
			return translate(err)
		}
	}
	return nil
}

// CreateNote inserts the note and its tag references in one transaction and
// fills n.Tags from the stored tags.
func (s *SQLStore) CreateNote(ctx context.Context, n *models.Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.rebind("INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
			n.ID, n.Title, n.Content, nullString(n.FolderID), n.UserID, n.CreatedAt, n.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		return s.insertNoteTags(ctx, tx, n.ID, n.TagIDs)
	})
	if err != nil {
		return err
	}
	return s.refreshTags(ctx, n)
}

// UpdateNote overwrites title, content, folder and the whole tag set of the
// note matching n.ID and n.UserID.
func (s *SQLStore) UpdateNote(ctx context.Context, n *models.Note) error {
	n.UpdatedAt = time.Now().UTC()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind("UPDATE notes SET title = ?, content = ?, folder_id = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
			n.Title, n.Content, nullString(n.FolderID), n.UpdatedAt, n.ID, n.UserID)
		if err != nil {
			return translate(err)
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return store.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM note_tags WHERE note_id = ?"), n.ID); err != nil {
			return err
		}
		return s.insertNoteTags(ctx, tx, n.ID, n.TagIDs)
	})
	if err != nil {
		return err
	}
	return s.refreshTags(ctx, n)
}

func (s *SQLStore) refreshTags(ctx context.Context, n *models.Note) error {
	notes := []models.Note{*n}
	if err := s.loadTags(ctx, notes, n.UserID); err != nil {
		return err
	}
	n.Tags, n.TagIDs = notes[0].Tags, notes[0].TagIDs
	return nil
}

func (s *SQLStore) DeleteNote(ctx context.Context, id, ownerID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind("DELETE FROM notes WHERE id = ? AND user_id = ?"), id, ownerID)
		if err != nil {
			return err
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return store.ErrNotFound
		}
		_, err = tx.ExecContext(ctx, s.rebind("DELETE FROM note_tags WHERE note_id = ?"), id)
		return err
	})
}
