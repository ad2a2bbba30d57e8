package services

import (
	"context"
	"errors"
	"io"

	"press_admin/internal/apperrors"
	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/report"

	"go.uber.org/zap"
)

// ImportSummary counts what happened to each data row of an upload.
type ImportSummary struct {
	Created int                   `json:"created"`
	Skipped int                   `json:"skipped"`
	Failed  int                   `json:"failed"`
	Errors  []*apperrors.RowError `json:"-"`
}

type ImportService interface {
	ImportAccounts(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

type importService struct {
	accounts    AccountService
	defaultRole models.Role
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewImportService(accounts AccountService, defaultRole models.Role, m *metrics.Metrics, log *zap.Logger) ImportService {
	if !defaultRole.Valid() {
		defaultRole = models.RoleCustomer
	}
	return &importService{accounts: accounts, defaultRole: defaultRole, metrics: m, log: log}
}

// ImportAccounts provisions one account per row. Rows are independent: a bad
// row is counted and logged, and the rest of the upload carries on.
func (s *importService) ImportAccounts(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	rows, err := report.ParseAccountRows(r)
	if err != nil {
		return nil, apperrors.Field("file", "Upload a valid Excel workbook.")
	}

	summary := &ImportSummary{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if row.Email == "" {
			summary.Skipped++
			s.metrics.ImportRows.WithLabelValues("skipped").Inc()
			continue
		}

		_, err := s.accounts.Create(ctx, CreateAccountInput{
			Role:          s.defaultRole,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Email:         row.Email,
			ContactNumber: row.ContactNumber,
			PressName:     row.PressName,
			Category:      row.Category,
		})
		switch {
		case err == nil:
			summary.Created++
			s.metrics.ImportRows.WithLabelValues("created").Inc()
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			summary.Skipped++
			s.metrics.ImportRows.WithLabelValues("skipped").Inc()
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, &apperrors.RowError{Row: row.Line, Err: err})
			s.metrics.ImportRows.WithLabelValues("failed").Inc()
			s.log.Warn("import row failed", zap.Int("row", row.Line), zap.String("email", row.Email), zap.Error(err))
		}
	}

	s.log.Info("account import finished",
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}
