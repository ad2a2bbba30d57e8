package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/repository/memstore"
	"press_admin/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*memstore.Store, services.AccountService, opener) {
	t.Helper()
	store := memstore.New()
	accounts := services.NewAccountService(store, services.NewCredentialGenerator(12), "http://erp.test/accounts/login/", metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())
	svc := services.NewMaintenanceService(store, accounts, zap.NewNop())
	return store, accounts, func() (services.MaintenanceService, func(), error) {
		return svc, func() {}, nil
	}
}

func execute(t *testing.T, open opener, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRotatePasswordsCommand(t *testing.T) {
	_, accounts, open := setup(t)
	_, err := accounts.Create(context.Background(), services.CreateAccountInput{Role: models.RoleAdmin, Email: "a@press.test"})
	require.NoError(t, err)
	_, err = accounts.Create(context.Background(), services.CreateAccountInput{Role: models.RoleCustomer, Email: "c@press.test"})
	require.NoError(t, err)

	out := execute(t, open, "rotate-passwords")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "ADMIN001")
	assert.Contains(t, lines[2], "AOP0001")
	assert.Contains(t, lines[2], "http://erp.test/accounts/login/")
}

func TestFixArchiveTokensCommand(t *testing.T) {
	store, _, open := setup(t)
	store.SeedArchive(
		models.ArchivedAccount{Username: "AOP0001", Token: "dup"},
		models.ArchivedAccount{Username: "AOP0002", Token: "dup"},
	)

	assert.Equal(t, "Regenerated 1 duplicate token(s)\n", execute(t, open, "fix-archive-tokens"))
	assert.Equal(t, "Regenerated 0 duplicate token(s)\n", execute(t, open, "fix-archive-tokens"))
}

func TestFixProfilesCommand(t *testing.T) {
	_, _, open := setup(t)
	assert.Equal(t, "Created 0 missing profile(s)\n", execute(t, open, "fix-profiles"))
}

func TestUnknownArgsRejected(t *testing.T) {
	_, _, open := setup(t)
	cmd := newRootCmd(open)
	cmd.SetArgs([]string{"fix-profiles", "extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
