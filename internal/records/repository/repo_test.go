package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicalregister/go-backend/internal/bootstrap"
	"github.com/medicalregister/go-backend/internal/records/domain"
	"github.com/medicalregister/go-backend/internal/records/repository"
)

// openTestDB connects to a real PostgreSQL instance and runs the migrations.
// Skips the test if TEST_DB_DSN is not set. You can set TEST_DB_DSN directly,
// or use individual env vars:
//
//	TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD, TEST_DB_NAME
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		host := os.Getenv("TEST_DB_HOST")
		port := os.Getenv("TEST_DB_PORT")
		user := os.Getenv("TEST_DB_USER")
		password := os.Getenv("TEST_DB_PASSWORD")
		dbname := os.Getenv("TEST_DB_NAME")

		if host == "" || port == "" || user == "" || dbname == "" {
			t.Skip("TEST_DB_DSN or TEST_DB_* environment variables not set, skipping PostgreSQL integration test")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, bootstrap.Migrate(ctx, db))

	_, err = db.ExecContext(ctx, `TRUNCATE medical_records RESTART IDENTITY`)
	require.NoError(t, err)

	return db
}

func TestRepository_Postgres(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRecordRepository(db)
	ctx := context.Background()

	const ownerA = "auth0|itest-a"
	const ownerB = "auth0|itest-b"

	saved, err := repo.Insert(ctx, domain.MedicalRecord{
		Name:    "Patient Zero",
		Age:     34,
		Notes:   "initial consult",
		OwnerID: ownerA,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, ownerA, saved.OwnerID)
	assert.Equal(t, ownerA, saved.CreatedBy)
	assert.Equal(t, ownerA, saved.LastModifiedBy)
	assert.False(t, saved.CreatedAt.IsZero())

	t.Run("find scoped to owner", func(t *testing.T) {
		got, err := repo.FindByIDAndOwner(ctx, saved.ID, ownerA)
		require.NoError(t, err)
		assert.Equal(t, "Patient Zero", got.Name)

		_, err = repo.FindByIDAndOwner(ctx, saved.ID, ownerB)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("existence predicates", func(t *testing.T) {
		exists, err := repo.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		owned, err := repo.ExistsByIDAndOwner(ctx, saved.ID, ownerB)
		require.NoError(t, err)
		assert.False(t, owned)
	})

	t.Run("list is per owner and ordered", func(t *testing.T) {
		second, err := repo.Insert(ctx, domain.MedicalRecord{
			Name: "Patient One", Age: 55, Notes: "annual check", OwnerID: ownerA,
		})
		require.NoError(t, err)
		_, err = repo.Insert(ctx, domain.MedicalRecord{
			Name: "Someone Else", Age: 41, Notes: "unrelated", OwnerID: ownerB,
		})
		require.NoError(t, err)

		records, err := repo.ListByOwner(ctx, ownerA)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, saved.ID, records[0].ID)
		assert.Equal(t, second.ID, records[1].ID)
	})

	t.Run("update restamps audit columns", func(t *testing.T) {
		updated, err := repo.Update(ctx, domain.MedicalRecord{
			ID: saved.ID, Name: "Patient Zero", Age: 35, Notes: "follow-up", OwnerID: ownerA,
		})
		require.NoError(t, err)
		assert.Equal(t, 35, updated.Age)
		assert.Equal(t, ownerA, updated.LastModifiedBy)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

		_, err = repo.Update(ctx, domain.MedicalRecord{
			ID: saved.ID, Name: "Hijack", Age: 1, Notes: "x", OwnerID: ownerB,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("soft delete hides the row everywhere", func(t *testing.T) {
		ok, err := repo.SoftDelete(ctx, saved.ID, ownerB)
		require.NoError(t, err)
		assert.False(t, ok, "non-owner must not delete")

		ok, err = repo.SoftDelete(ctx, saved.ID, ownerA)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.FindByIDAndOwner(ctx, saved.ID, ownerA)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		exists, err := repo.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		// The row is still physically present, only flagged.
		var deleted bool
		err = db.QueryRowContext(ctx, `SELECT deleted FROM medical_records WHERE id = $1`, saved.ID).Scan(&deleted)
		require.NoError(t, err)
		assert.True(t, deleted)

		ok, err = repo.SoftDelete(ctx, saved.ID, ownerA)
		require.NoError(t, err)
		assert.False(t, ok, "deleting twice matches no row")
	})
}
