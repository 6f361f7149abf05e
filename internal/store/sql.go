package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
	"github.com/tbourn/go-moodreel-backend/internal/repo"
)

// SQLStore keeps one user_states row per owner.
type SQLStore struct {
	db     *gorm.DB
	prefix string
}

// NewSQLStore returns a Store backed by db. The user_states table must
// already be migrated (see repo.AutoMigrate).
func NewSQLStore(db *gorm.DB, prefix string) *SQLStore {
	return &SQLStore{db: db, prefix: prefix}
}

func (s *SQLStore) Load(ctx context.Context, owner string) (*domain.UserData, error) {
	st, err := repo.GetUserState(ctx, s.db, Key(s.prefix, owner))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user state: %w", err)
	}
	d, err := Decode([]byte(st.Document))
	if err != nil {
		return nil, fmt.Errorf("decode user state: %w", err)
	}
	return d, nil
}

func (s *SQLStore) Save(ctx context.Context, owner string, data *domain.UserData) error {
	b, err := Encode(data)
	if err != nil {
		return fmt.Errorf("encode user state: %w", err)
	}
	if err := repo.SaveUserState(ctx, s.db, Key(s.prefix, owner), string(b)); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, owner string) error {
	if err := repo.DeleteUserState(ctx, s.db, Key(s.prefix, owner)); err != nil {
		return fmt.Errorf("delete user state: %w", err)
	}
	return nil
}
