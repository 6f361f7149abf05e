package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestGetUserState_Missing(t *testing.T) {
	db := newTestDB(t, &domain.UserState{})
	st, err := GetUserState(context.Background(), db, "moodreel_user_data_v1:nobody")
	if st != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", st, err)
	}
}

func TestSaveUserState_InsertThenOverwrite(t *testing.T) {
	db := newTestDB(t, &domain.UserState{})
	ctx := context.Background()
	key := "moodreel_user_data_v1:u1"

	if err := SaveUserState(ctx, db, key, `{"v":1}`); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := SaveUserState(ctx, db, key, `{"v":2}`); err != nil {
		t.Fatalf("second save: %v", err)
	}

	st, err := GetUserState(ctx, db, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Document != `{"v":2}` {
		t.Fatalf("expected overwritten document, got %q", st.Document)
	}

	var n int64
	db.Model(&domain.UserState{}).Where("key = ?", key).Count(&n)
	if n != 1 {
		t.Fatalf("expected single row per key, got %d", n)
	}
}

func TestDeleteUserState(t *testing.T) {
	db := newTestDB(t, &domain.UserState{})
	ctx := context.Background()
	key := "moodreel_user_data_v1:u2"

	if err := DeleteUserState(ctx, db, key); err != nil {
		t.Fatalf("delete missing should not fail: %v", err)
	}
	if err := SaveUserState(ctx, db, key, `{}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := DeleteUserState(ctx, db, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetUserState(ctx, db, key); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
