package store

import (
	"context"
	"errors"

	"noteful/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the id and owner.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("store: duplicate")
)

// NoteFilter narrows ListNotes. Empty fields are ignored.
type NoteFilter struct {
	SearchTerm string
	FolderID   string
	TagID      string
}

// Store defines the interface for all database operations. Every method on
// folders, tags and notes takes the owner id explicitly and never touches
// rows belonging to another user.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)

	// Folders
	ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error)
	GetFolder(ctx context.Context, id, ownerID string) (*models.Folder, error)
	CreateFolder(ctx context.Context, f *models.Folder) error
	UpdateFolder(ctx context.Context, f *models.Folder) error
	DeleteFolder(ctx context.Context, id, ownerID string) error

	// Tags
	ListTags(ctx context.Context, ownerID string) ([]models.Tag, error)
	GetTag(ctx context.Context, id, ownerID string) (*models.Tag, error)
	CountTags(ctx context.Context, ids []string, ownerID string) (int, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id, ownerID string) error

	// Notes
	ListNotes(ctx context.Context, ownerID string, filter NoteFilter) ([]models.Note, error)
	GetNote(ctx context.Context, id, ownerID string) (*models.Note, error)
	CreateNote(ctx context.Context, n *models.Note) error
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id, ownerID string) error

	// Reset removes every row of every table. Used by seeding.
	Reset(ctx context.Context) error

	Close() error
}
