// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"testing"

	"rh-platform/internal/store"
	"rh-platform/pkg/db"

	"github.com/google/uuid"
)

func Open(t testing.TB) *store.Store {
	t.Helper()

	// A unique name keeps shared-cache databases from leaking between tests.
	dsn := "sqlite:file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.OpenGorm(db.Config{DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(gdb)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}
