package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"noteful/internal/models"
	"noteful/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := New("sqlite3", filepath.Join(t.TempDir(), "noteful.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *SQLStore, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestRebind(t *testing.T) {
	s := &SQLStore{dbType: Postgres}
	assert.Equal(t, "SELECT * FROM notes WHERE id = $1 AND user_id = $2", s.rebind("SELECT * FROM notes WHERE id = ? AND user_id = ?"))

	s.dbType = SQLite
	assert.Equal(t, "id = ?", s.rebind("id = ?"))
}

func TestDialect(t *testing.T) {
	for driver, want := range map[string]DBType{"sqlite3": SQLite, "postgres": Postgres, "pgx": Postgres} {
		got, err := dialect(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := dialect("mysql")
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := createUser(t, s, "alice")
	assert.NotEmpty(t, u.ID)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestFolderNameUniquePerOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	require.NoError(t, s.CreateFolder(ctx, &models.Folder{Name: "Work", UserID: alice.ID}))
	err := s.CreateFolder(ctx, &models.Folder{Name: "Work", UserID: alice.ID})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, s.CreateFolder(ctx, &models.Folder{Name: "Work", UserID: bob.ID}))

	folders, err := s.ListFolders(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
}

func TestOwnerScoping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	note := &models.Note{Title: "secret", UserID: alice.ID}
	require.NoError(t, s.CreateNote(ctx, note))

	_, err := s.GetNote(ctx, note.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpdateNote(ctx, &models.Note{ID: note.ID, Title: "stolen", UserID: bob.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteNote(ctx, note.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetNote(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}

func TestListNotesFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")

	folder := &models.Folder{Name: "Recipes", UserID: alice.ID}
	require.NoError(t, s.CreateFolder(ctx, folder))
	tag := &models.Tag{Name: "food", UserID: alice.ID}
	require.NoError(t, s.CreateTag(ctx, tag))

	soup := &models.Note{Title: "Tomato Soup", Content: "simmer", FolderID: folder.ID, TagIDs: []string{tag.ID}, UserID: alice.ID}
	require.NoError(t, s.CreateNote(ctx, soup))
	plan := &models.Note{Title: "Plan", Content: "100% done_ish", UserID: alice.ID}
	require.NoError(t, s.CreateNote(ctx, plan))

	all, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, plan.ID, all[0].ID, "most recently updated first")

	found, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{SearchTerm: "tomato"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, soup.ID, found[0].ID)
	require.Len(t, found[0].Tags, 1)
	assert.Equal(t, "food", found[0].Tags[0].Name)

	found, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{SearchTerm: "0%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, plan.ID, found[0].ID)

	found, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{FolderID: folder.ID})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = s.ListNotes(ctx, alice.ID, store.NoteFilter{TagID: tag.ID})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestListNotesSearchUnicode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")

	summer := &models.Note{Title: "ÉTÉ plans", Content: "Über trip", UserID: alice.ID}
	require.NoError(t, s.CreateNote(ctx, summer))

	for _, term := range []string{"été", "ÉTÉ", "Été", "über", "ÜBER", "plans"} {
		found, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{SearchTerm: term})
		require.NoError(t, err)
		require.Len(t, found, 1, "search %q", term)
		assert.Equal(t, summer.ID, found[0].ID)
	}

	found, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{SearchTerm: "ete"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDeleteFolderAndTagDecoupleNotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")

	folder := &models.Folder{Name: "Inbox", UserID: alice.ID}
	require.NoError(t, s.CreateFolder(ctx, folder))
	tag := &models.Tag{Name: "todo", UserID: alice.ID}
	require.NoError(t, s.CreateTag(ctx, tag))
	note := &models.Note{Title: "call mom", FolderID: folder.ID, TagIDs: []string{tag.ID}, UserID: alice.ID}
	require.NoError(t, s.CreateNote(ctx, note))

	require.NoError(t, s.DeleteFolder(ctx, folder.ID, alice.ID))
	require.NoError(t, s.DeleteTag(ctx, tag.ID, alice.ID))

	got, err := s.GetNote(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FolderID)
	assert.Empty(t, got.Tags)

	assert.ErrorIs(t, s.DeleteFolder(ctx, folder.ID, alice.ID), store.ErrNotFound)
}

func TestCountTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	mine := &models.Tag{Name: "a", UserID: alice.ID}
	require.NoError(t, s.CreateTag(ctx, mine))
	theirs := &models.Tag{Name: "a", UserID: bob.ID}
	require.NoError(t, s.CreateTag(ctx, theirs))

	n, err := s.CountTags(ctx, []string{mine.ID, theirs.ID}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountTags(ctx, nil, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice")

	tag := &models.Tag{Name: "a", UserID: alice.ID}
	require.NoError(t, s.CreateTag(ctx, tag))
	require.NoError(t, s.CreateNote(ctx, &models.Note{Title: "n", TagIDs: []string{tag.ID}, UserID: alice.ID}))

	require.NoError(t, s.Reset(ctx))

	_, err := s.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	notes, err := s.ListNotes(ctx, alice.ID, store.NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, notes)

	createUser(t, s, "alice")
}
