package services

import (
	"context"
	"testing"

	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/repository/memstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLoginURL = "http://erp.test/accounts/login/"

type fixture struct {
	store     *memstore.Store
	metrics   *metrics.Metrics
	accounts  AccountService
	lifecycle LifecycleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := zap.NewNop()
	return &fixture{
		store:     store,
		metrics:   m,
		accounts:  NewAccountService(store, NewCredentialGenerator(12), testLoginURL, m, log),
		lifecycle: NewLifecycleService(store, m, log),
	}
}

func (f *fixture) create(t *testing.T, role models.Role, email, contact string) *ProvisionResult {
	t.Helper()
	res, err := f.accounts.Create(context.Background(), CreateAccountInput{
		Role:          role,
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		ContactNumber: contact,
	})
	require.NoError(t, err)
	return res
}
