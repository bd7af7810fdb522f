package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamerscream/gamerscream/database"
	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(":memory:", database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLitePolicyRepo_GetEmpty(t *testing.T) {
	repo := NewSQLitePolicyRepo(newTestDB(t).Conn)

	_, err := repo.Get(t.Context())
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSQLitePolicyRepo_SaveAndGet(t *testing.T) {
	repo := NewSQLitePolicyRepo(newTestDB(t).Conn)

	err := repo.Save(t.Context(), &models.AppPolicy{
		AppPin:        "1520",
		SigningSecret: "secret-a",
	})
	require.NoError(t, err)

	got, err := repo.Get(t.Context())
	require.NoError(t, err)
	require.Equal(t, "1520", got.AppPin)
	require.Equal(t, "secret-a", got.SigningSecret)
	require.False(t, got.UpdatedAt.IsZero())
}

func TestSQLitePolicyRepo_SaveIsUpsert(t *testing.T) {
	repo := NewSQLitePolicyRepo(newTestDB(t).Conn)

	require.NoError(t, repo.Save(t.Context(), &models.AppPolicy{
		AppPin: "1520", SigningSecret: "secret-a",
	}))
	require.NoError(t, repo.Save(t.Context(), &models.AppPolicy{
		AppPin: "9999", SigningSecret: "secret-b",
	}))

	// Tek satır — ikinci Save üzerine yazar, yenisini eklemez.
	got, err := repo.Get(t.Context())
	require.NoError(t, err)
	require.Equal(t, "9999", got.AppPin)
	require.Equal(t, "secret-b", got.SigningSecret)
}
