package repository_test

import (
	"context"
	"testing"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/database"
	"press_admin/internal/metrics"
	"press_admin/internal/migrations"
	"press_admin/internal/models"
	"press_admin/internal/repository"
	"press_admin/internal/services"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newPostgresStore(t *testing.T) repository.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("press_admin"),
		postgres.WithUsername("press"),
		postgres.WithPassword("press"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Initialize(dsn, false, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))

	return repository.NewStore(db)
}

func TestPostgresAccountLifecycle(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	m := metrics.NewMetrics(prometheus.NewRegistry())
	accounts := services.NewAccountService(store, services.NewCredentialGenerator(12), "http://erp.test/accounts/login/", m, zap.NewNop())
	lifecycle := services.NewLifecycleService(store, m, zap.NewNop())

	admin, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleAdmin, Email: "admin@press.test"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN001", admin.Account.Username)
	assert.True(t, admin.Account.IsSuperuser)

	first, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleCustomer, Email: "c1@press.test", ContactNumber: "9800000001"})
	require.NoError(t, err)
	assert.Equal(t, "AOP0001", first.Account.Username)

	_, err = accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleStaff, Email: "s@press.test", ContactNumber: "9800000001"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateContact)

	got, err := store.Accounts().GetByID(ctx, first.Account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerProfile)
	assert.Equal(t, "AOP0001", got.CustomerProfile.CustomerID)
	assert.Nil(t, got.StaffProfile)

	entry, err := lifecycle.Delete(ctx, first.Account.ID, "closed")
	require.NoError(t, err)
	assert.Len(t, entry.Token, 36)

	_, err = lifecycle.Restore(ctx, entry.ID)
	require.NoError(t, err)
	bin, err := lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	entry, err = lifecycle.Delete(ctx, first.Account.ID, "")
	require.NoError(t, err)
	res, err := lifecycle.Purge(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, res.AccountRemoved)

	_, err = store.Accounts().GetByID(ctx, first.Account.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// the purged AOP0001 is never handed out again
	second, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleCustomer, Email: "c2@press.test"})
	require.NoError(t, err)
	assert.Equal(t, "AOP0002", second.Account.Username)
	assert.Equal(t, "AOP0002", services.ResolveProfile(second.Account).CustomerID())
}

func TestPostgresUniqueViolationTranslated(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	a := &models.Account{Username: "AOP0001", Email: "x@press.test", Role: models.RoleCustomer, DateJoined: time.Now()}
	require.NoError(t, store.Accounts().Create(ctx, a))

	b := &models.Account{Username: "AOP0001", Email: "y@press.test", Role: models.RoleCustomer, DateJoined: time.Now()}
	assert.ErrorIs(t, store.Accounts().Create(ctx, b), apperrors.ErrIntegrityConflict)
}

func TestPostgresCounterAndJobs(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx repository.Store) error {
		v, err := tx.Counters().Lock(ctx, "AOP")
		if err != nil {
			return err
		}
		assert.Equal(t, 0, v)
		return tx.Counters().Set(ctx, "AOP", 7)
	})
	require.NoError(t, err)

	require.NoError(t, store.Transaction(ctx, func(tx repository.Store) error {
		v, err := tx.Counters().Lock(ctx, "AOP")
		assert.Equal(t, 7, v)
		return err
	}))

	jobs := services.NewJobService(store, zap.NewNop())
	job, err := jobs.Create(ctx, services.JobInput{
		Date:      "2024-03-05",
		PartyName: "Shah Prints",
		Total:     decimal.RequireFromString("1500.50"),
		Received:  decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err := jobs.List(ctx, repository.JobFilter{From: &from, PartyName: "shah"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, job.ID, list[0].ID)
	assert.True(t, decimal.RequireFromString("1000.50").Equal(list[0].Balance))
}

func TestPostgresRestoreAndPurgeOrphans(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	lifecycle := services.NewLifecycleService(store, m, zap.NewNop())

	ghost := &models.ArchivedAccount{OriginalID: 404, Username: "GHOST", Token: uuid.NewString(), DeletedAt: time.Now()}
	require.NoError(t, store.Archive().Create(ctx, ghost))

	_, err := lifecycle.Restore(ctx, ghost.ID)
	assert.ErrorIs(t, err, services.ErrOrphanedArchive)
	_, err = store.Archive().GetByID(ctx, ghost.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	other := &models.ArchivedAccount{OriginalID: 405, Username: "GONE", Token: uuid.NewString(), DeletedAt: time.Now()}
	require.NoError(t, store.Archive().Create(ctx, other))
	res, err := lifecycle.Purge(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, res.AccountRemoved)

	bin, err := lifecycle.RecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	_, err = lifecycle.Purge(ctx, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgresDeletedAccountKeepsContactReserved(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	accounts := services.NewAccountService(store, services.NewCredentialGenerator(12), "http://erp.test/accounts/login/", m, zap.NewNop())
	lifecycle := services.NewLifecycleService(store, m, zap.NewNop())

	staff, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleStaff, Email: "s@press.test", ContactNumber: "9811111111"})
	require.NoError(t, err)
	customer, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleCustomer, Email: "c@press.test", ContactNumber: "9822222222"})
	require.NoError(t, err)

	update := services.UpdateAccountInput{
		Username:      customer.Account.Username,
		Email:         customer.Account.Email,
		ContactNumber: "9811111111",
	}
	_, err = accounts.Update(ctx, customer.Account.ID, update)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateContact)

	update.ContactNumber = "9822222222"
	update.Email = "S@Press.Test"
	_, err = accounts.Update(ctx, customer.Account.ID, update)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	// soft deleted accounts still hold their contact number
	_, err = lifecycle.Delete(ctx, staff.Account.ID, "")
	require.NoError(t, err)
	_, err = accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleCustomer, Email: "n@press.test", ContactNumber: "9811111111"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateContact)
}

func TestPostgresResetCredential(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	accounts := services.NewAccountService(store, services.NewCredentialGenerator(12), "http://erp.test/accounts/login/", m, zap.NewNop())

	created, err := accounts.Create(ctx, services.CreateAccountInput{Role: models.RoleCustomer, Email: "c@press.test", PressName: "Shah Prints"})
	require.NoError(t, err)

	reset, err := accounts.ResetCredential(ctx, created.Account.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.Credential, reset.Credential)

	got, err := store.Accounts().GetByID(ctx, created.Account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerProfile)
	assert.Equal(t, "Shah Prints", got.CustomerProfile.PressName)
	assert.Equal(t, reset.Credential, got.CustomerProfile.PlainCredential)
}

func TestPostgresPartyFilterMatchesLiterally(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	jobs := services.NewJobService(store, zap.NewNop())
	for _, party := range []string{"A_B Prints", "AxB Prints", "100% Offset", "1000 Offset"} {
		_, err := jobs.Create(ctx, services.JobInput{
			Date:      "2024-03-05",
			PartyName: party,
			Total:     decimal.RequireFromString("10"),
		})
		require.NoError(t, err)
	}

	list, err := jobs.List(ctx, repository.JobFilter{PartyName: "a_b"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A_B Prints", list[0].PartyName)

	list, err = jobs.List(ctx, repository.JobFilter{PartyName: "100%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "100% Offset", list[0].PartyName)
}
