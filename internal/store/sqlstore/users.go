package sqlstore

import (
	"context"

	"noteful/internal/models"

	"github.com/google/uuid"
)

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, s.rebind("INSERT INTO users (id, username, fullname, password_hash) VALUES (?, ?, ?, ?)"),
		u.ID, u.Username, u.Fullname, u.PasswordHash)
	return translate(err)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id, username, fullname, password_hash FROM users WHERE username = ?"), username).
		Scan(&u.ID, &u.Username, &u.Fullname, &u.PasswordHash)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id, username, fullname, password_hash FROM users WHERE id = ?"), id).
		Scan(&u.ID, &u.Username, &u.Fullname, &u.PasswordHash)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
