package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteArchivesAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t, models.RoleCustomer, "c@example.com", "9800000001")

	entry, err := f.lifecycle.Delete(ctx, res.Account.ID, "  duplicate customer ")
	require.NoError(t, err)

	assert.Equal(t, res.Account.ID, entry.OriginalID)
	assert.Equal(t, "AOP0001", entry.Username)
	assert.Equal(t, "9800000001", entry.ContactNumber)
	assert.Equal(t, models.RoleCustomer, entry.Role)
	assert.Equal(t, "duplicate customer", entry.Reason)
	_, err = uuid.Parse(entry.Token)
	assert.NoError(t, err)

	stored, err := f.store.Accounts().GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedAt)
	assert.WithinDuration(t, time.Now(), *stored.DeletedAt, time.Minute)

	_, err = f.lifecycle.Delete(ctx, res.Account.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.lifecycle.Delete(ctx, 999, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t, models.RoleStaff, "s@example.com", "")

	f.store.FailOn["accounts.set_deleted"] = errors.New("write failed")
	_, err := f.lifecycle.Delete(ctx, res.Account.ID, "")
	require.Error(t, err)

	bin, err := f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	delete(f.store.FailOn, "accounts.set_deleted")
	f.store.FailOn["archive.create"] = errors.New("insert failed")
	_, err = f.lifecycle.Delete(ctx, res.Account.ID, "")
	require.Error(t, err)

	stored, err := f.store.Accounts().GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
	assert.Nil(t, stored.DeletedAt)
}

func TestDeleteThenRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t, models.RoleCustomer, "c@example.com", "")

	entry, err := f.lifecycle.Delete(ctx, res.Account.ID, "")
	require.NoError(t, err)

	restored, err := f.lifecycle.Restore(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.Nil(t, restored.DeletedAt)

	stored, err := f.store.Accounts().GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)

	bin, err := f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	_, err = f.lifecycle.Restore(ctx, entry.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRestoreOrphanedEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedArchive(models.ArchivedAccount{OriginalID: 404, Username: "GHOST", Token: uuid.NewString(), DeletedAt: time.Now()})

	bin, err := f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	require.Len(t, bin, 1)

	_, err = f.lifecycle.Restore(ctx, bin[0].ID)
	assert.ErrorIs(t, err, ErrOrphanedArchive)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	bin, err = f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)
}

func TestDeleteThenPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.create(t, models.RoleStaff, "s@example.com", "9800000001")

	entry, err := f.lifecycle.Delete(ctx, res.Account.ID, "left")
	require.NoError(t, err)

	result, err := f.lifecycle.Purge(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, result.AccountRemoved)
	assert.Equal(t, entry.Token, result.Entry.Token)

	_, err = f.store.Accounts().GetByID(ctx, res.Account.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	bin, err := f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	// the contact number is free again once the profile is gone
	f.create(t, models.RoleCustomer, "c@example.com", "9800000001")
}

func TestPurgeOrphanedEntryStillClearsBin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedArchive(models.ArchivedAccount{OriginalID: 404, Username: "GHOST", Token: uuid.NewString(), DeletedAt: time.Now()})
	bin, err := f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)

	result, err := f.lifecycle.Purge(ctx, bin[0].ID)
	require.NoError(t, err)
	assert.False(t, result.AccountRemoved)

	bin, err = f.lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	_, err = f.lifecycle.Purge(ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecycleBinNewestFirst(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.store.SeedArchive(
		models.ArchivedAccount{Username: "OLD", Token: "a", DeletedAt: now.Add(-time.Hour)},
		models.ArchivedAccount{Username: "NEW", Token: "b", DeletedAt: now},
	)

	bin, err := f.lifecycle.RecycleBin(context.Background())
	require.NoError(t, err)
	require.Len(t, bin, 2)
	assert.Equal(t, "NEW", bin[0].Username)
	assert.Equal(t, "OLD", bin[1].Username)
}
