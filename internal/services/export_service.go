package services

import (
	"bytes"
	"context"
	"time"

	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/report"
	"press_admin/internal/repository"
)

type ExportService interface {
	AccountsXLSX(ctx context.Context) (*bytes.Buffer, error)
	AccountsPDF(ctx context.Context) (*bytes.Buffer, error)
}

type exportService struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewExportService(store repository.Store, m *metrics.Metrics) ExportService {
	return &exportService{store: store, metrics: m}
}

// AccountRow flattens an account and its profile for reports.
func AccountRow(account *models.Account) report.AccountRow {
	ref := ResolveProfile(account)
	status := "Active"
	if account.IsDeleted {
		status = "Deleted"
	}
	return report.AccountRow{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Username:  account.Username,
		Email:     account.Email,
		Password:  ref.Credential(),
		Role:      string(account.RoleLabel()),
		WhatsApp:  ref.Contact(),
		PressName: ref.PressName(),
		Status:    status,
	}
}

func (s *exportService) rows(ctx context.Context) ([]report.AccountRow, error) {
	accounts, err := s.store.Accounts().List(ctx, repository.AccountFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	rows := make([]report.AccountRow, 0, len(accounts))
	for i := range accounts {
		rows = append(rows, AccountRow(&accounts[i]))
	}
	return rows, nil
}

func (s *exportService) AccountsXLSX(ctx context.Context) (*bytes.Buffer, error) {
	start := time.Now()
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	buf, err := report.AccountsXLSX(rows)
	s.metrics.ReportGeneration.WithLabelValues("xlsx").Observe(time.Since(start).Seconds())
	return buf, err
}

func (s *exportService) AccountsPDF(ctx context.Context) (*bytes.Buffer, error) {
	start := time.Now()
	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	buf, err := report.AccountsPDF(rows)
	s.metrics.ReportGeneration.WithLabelValues("pdf").Observe(time.Since(start).Seconds())
	return buf, err
}
