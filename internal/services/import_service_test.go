package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"press_admin/internal/apperrors"
	"press_admin/internal/models"
	"press_admin/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func uploadWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()

	header := []interface{}{"First Name", "Last Name", "Email", "WhatsApp"}
	require.NoError(t, file.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		require.NoError(t, file.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, models.RoleStaff, "taken@example.com", "")

	svc := NewImportService(f.accounts, models.RoleCustomer, f.metrics, zap.NewNop())
	summary, err := svc.ImportAccounts(ctx, uploadWorkbook(t,
		[]interface{}{"Meera", "Shah", "meera@example.com", "9800000001"},
		[]interface{}{"No", "Email", "", "9800000002"},
		[]interface{}{"Dev", "Rao", "dev@example.com"},
		[]interface{}{"Old", "Timer", "taken@example.com", "9800000003"},
		[]interface{}{"Bad", "Mail", "not-an-email", ""},
		[]interface{}{"Same", "Phone", "same@example.com", "9800000001"},
	))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 6, summary.Errors[0].Row)
	assert.ErrorIs(t, summary.Errors[1], apperrors.ErrValidation)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.ImportRows.WithLabelValues("created")), 0)

	customers, err := f.store.Accounts().List(ctx, repository.AccountFilter{Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, customers, 2)
	for _, c := range customers {
		cred := ResolveProfile(&c).Credential()
		assert.GreaterOrEqual(t, len(cred), MinCredentialLength)
		assert.True(t, strings.HasPrefix(c.Username, "AOP"))
	}
}

func TestImportAccountsRejectsInvalidFile(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.accounts, "", f.metrics, zap.NewNop())

	_, err := svc.ImportAccounts(context.Background(), bytes.NewBufferString("plain text"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, apperrors.Fields(err), "file")
}
