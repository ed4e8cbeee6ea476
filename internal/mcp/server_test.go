package mcp

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"noteful/internal/auth"
	"noteful/internal/models"
	"noteful/internal/store"
	"noteful/internal/store/sqlstore"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callerContext(u *models.User) context.Context {
	return auth.WithIdentity(context.Background(), auth.IdentityOf(u))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return textContent.Text
}

func TestSearchNotesTool(t *testing.T) {
	store, err := sqlstore.New("sqlite3", filepath.Join(t.TempDir(), "noteful.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	alice := &models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, alice))
	bob := &models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, bob))

	folder := &models.Folder{Name: "Work", UserID: alice.ID}
	require.NoError(t, store.CreateFolder(ctx, folder))
	require.NoError(t, store.CreateNote(ctx, &models.Note{Title: "Note 1", Content: "sprint planning", FolderID: folder.ID, UserID: alice.ID}))
	require.NoError(t, store.CreateNote(ctx, &models.Note{Title: "Note 2", Content: "lunch", UserID: alice.ID}))
	require.NoError(t, store.CreateNote(ctx, &models.Note{Title: "Bob's note", Content: "sprint review", UserID: bob.ID}))

	srv := NewMCPServer(store, zerolog.Nop())

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]any{"searchTerm": "SPRINT"},
		},
	}
	result, err := srv.searchNotesHandler(callerContext(alice), req)
	require.NoError(t, err)
	require.False(t, result.IsError)
	content := resultText(t, result)
	assert.Contains(t, content, "Found 1 notes")
	assert.Contains(t, content, "Note 1")
	assert.NotContains(t, content, "Bob's note")

	req.Params.Arguments = map[string]any{"folderId": folder.ID}
	result, err = srv.searchNotesHandler(callerContext(alice), req)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Note 1")

	req.Params.Arguments = map[string]any{"folderId": folder.ID}
	result, err = srv.searchNotesHandler(callerContext(bob), req)
	require.NoError(t, err)
	assert.Equal(t, "No notes found.", resultText(t, result))

	req.Params.Arguments = map[string]any{"tagId": "not-an-id"}
	result, err = srv.searchNotesHandler(callerContext(alice), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = srv.searchNotesHandler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError, "expected error without caller identity")
}

func TestListFoldersTool(t *testing.T) {
	store, err := sqlstore.New("sqlite3", filepath.Join(t.TempDir(), "noteful.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	alice := &models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, alice))
	bob := &models.User{Username: "bob", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, bob))
	require.NoError(t, store.CreateFolder(ctx, &models.Folder{Name: "Personal", UserID: alice.ID}))
	require.NoError(t, store.CreateFolder(ctx, &models.Folder{Name: "Archive", UserID: alice.ID}))

	srv := NewMCPServer(store, zerolog.Nop())

	result, err := srv.listFoldersHandler(callerContext(alice), mcp.CallToolRequest{})
	require.NoError(t, err)
	content := resultText(t, result)
	assert.Contains(t, content, "Found 2 folders")
	assert.Less(t, strings.Index(content, "Archive"), strings.Index(content, "Personal"))

	result, err = srv.listFoldersHandler(callerContext(bob), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "No folders found.", resultText(t, result))
}

func TestHTTPHandler(t *testing.T) {
	srv := NewMCPServer(nil, zerolog.Nop())
	assert.NotNil(t, srv.HTTPHandler())
}

// brokenStore fails every listing with an error carrying internal detail.
type brokenStore struct {
	store.Store
}

func (brokenStore) ListNotes(context.Context, string, store.NoteFilter) ([]models.Note, error) {
	return nil, errors.New("disk I/O error at /var/lib/noteful.db")
}

func (brokenStore) ListFolders(context.Context, string) ([]models.Folder, error) {
	return nil, errors.New("disk I/O error at /var/lib/noteful.db")
}

func TestToolErrorsHideCause(t *testing.T) {
	var buf bytes.Buffer
	srv := NewMCPServer(brokenStore{}, zerolog.New(&buf))
	ctx := callerContext(&models.User{ID: "u1", Username: "alice"})

	result, err := srv.searchNotesHandler(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "internal error", resultText(t, result))

	result, err = srv.listFoldersHandler(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.NotContains(t, resultText(t, result), "disk")

	assert.Contains(t, buf.String(), "disk I/O error")
	assert.Contains(t, buf.String(), `"tool":"list_folders"`)
}
