package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAccountAlreadyDeleted is returned when deleting an account that is
// already in the recycle bin.
var ErrAccountAlreadyDeleted = apperrors.Field("account", "This account is already deleted.")

// ErrOrphanedArchive is returned by Restore when the archived account no
// longer exists. The recycle bin entry has been removed regardless.
var ErrOrphanedArchive = fmt.Errorf("%w: original account no longer exists", apperrors.ErrNotFound)

// PurgeResult reports what Purge removed.
type PurgeResult struct {
	Entry          *models.ArchivedAccount
	AccountRemoved bool
}

type LifecycleService interface {
	Delete(ctx context.Context, accountID uint, reason string) (*models.ArchivedAccount, error)
	Restore(ctx context.Context, archiveID uint) (*models.Account, error)
	Purge(ctx context.Context, archiveID uint) (*PurgeResult, error)
	RecycleBin(ctx context.Context) ([]models.ArchivedAccount, error)
}

type lifecycleService struct {
	store   repository.Store
	now     func() time.Time
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewLifecycleService(store repository.Store, m *metrics.Metrics, log *zap.Logger) LifecycleService {
	return &lifecycleService{store: store, now: time.Now, metrics: m, log: log}
}

func (s *lifecycleService) Delete(ctx context.Context, accountID uint, reason string) (*models.ArchivedAccount, error) {
	now := s.now()
	var entry *models.ArchivedAccount

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account.IsDeleted {
			return ErrAccountAlreadyDeleted
		}

		entry = &models.ArchivedAccount{
			OriginalID:    account.ID,
			Username:      account.Username,
			Email:         account.Email,
			FirstName:     account.FirstName,
			LastName:      account.LastName,
			ContactNumber: ResolveProfile(account).Contact(),
			Role:          account.RoleLabel(),
			DateJoined:    account.DateJoined,
			DeletedAt:     now,
			Reason:        strings.TrimSpace(reason),
			Token:         uuid.NewString(),
		}
		if err := tx.Archive().Create(ctx, entry); err != nil {
			return fmt.Errorf("archive account: %w", err)
		}
		if err := tx.Accounts().SetDeleted(ctx, account.ID, &now); err != nil {
			return fmt.Errorf("mark account deleted: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LifecycleEvents.WithLabelValues("delete").Inc()
	s.log.Info("account moved to recycle bin",
		zap.Uint("account_id", accountID),
		zap.Uint("archive_id", entry.ID),
		zap.String("token", entry.Token),
	)
	return entry, nil
}

// Restore reactivates the archived account and drops its recycle bin entry.
// When the account row is gone the entry is still dropped and
// ErrOrphanedArchive is returned.
func (s *lifecycleService) Restore(ctx context.Context, archiveID uint) (*models.Account, error) {
	var account *models.Account
	orphaned := false

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		entry, err := tx.Archive().GetByID(ctx, archiveID)
		if err != nil {
			return err
		}

		account, err = tx.Accounts().GetByID(ctx, entry.OriginalID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			orphaned = true
		case err != nil:
			return err
		default:
			if err := tx.Accounts().SetDeleted(ctx, account.ID, nil); err != nil {
				return fmt.Errorf("clear deleted flag: %w", err)
			}
			account.ClearDeleted()
		}

		return tx.Archive().Delete(ctx, archiveID)
	})
	if err != nil {
		return nil, err
	}

	if orphaned {
		s.metrics.LifecycleEvents.WithLabelValues("restore_orphaned").Inc()
		s.log.Warn("recycle bin entry had no account to restore", zap.Uint("archive_id", archiveID))
		return nil, ErrOrphanedArchive
	}

	s.metrics.LifecycleEvents.WithLabelValues("restore").Inc()
	s.log.Info("account restored", zap.Uint("account_id", account.ID), zap.Uint("archive_id", archiveID))
	return account, nil
}

// Purge permanently removes the archived account, if it still exists, and
// always removes the recycle bin entry.
func (s *lifecycleService) Purge(ctx context.Context, archiveID uint) (*PurgeResult, error) {
	result := &PurgeResult{}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		entry, err := tx.Archive().GetByID(ctx, archiveID)
		if err != nil {
			return err
		}
		result.Entry = entry

		switch err := tx.Accounts().HardDelete(ctx, entry.OriginalID); {
		case err == nil:
			result.AccountRemoved = true
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("purge account: %w", err)
		}

		return tx.Archive().Delete(ctx, archiveID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LifecycleEvents.WithLabelValues("purge").Inc()
	s.log.Info("account purged",
		zap.Uint("archive_id", archiveID),
		zap.Uint("account_id", result.Entry.OriginalID),
		zap.Bool("account_removed", result.AccountRemoved),
	)
	return result, nil
}

func (s *lifecycleService) RecycleBin(ctx context.Context) ([]models.ArchivedAccount, error) {
	return s.store.Archive().List(ctx)
}
