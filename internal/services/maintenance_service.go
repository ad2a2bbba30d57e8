package services

import (
	"context"
	"fmt"

	"press_admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RotatedCredential is one line of the rotate-passwords output.
type RotatedCredential struct {
	Username   string
	Credential string
	LoginURL   string
}

type MaintenanceService interface {
	// FixProfiles creates the profile for every account that lacks one and
	// returns how many were created.
	FixProfiles(ctx context.Context) (int, error)
	// FixArchiveTokens gives every recycle bin entry that shares a token with
	// an earlier entry a fresh token. The entry with the lowest id keeps the
	// original.
	FixArchiveTokens(ctx context.Context) (int, error)
	RotatePasswords(ctx context.Context) ([]RotatedCredential, error)
}

type maintenanceService struct {
	store    repository.Store
	accounts AccountService
	log      *zap.Logger
}

func NewMaintenanceService(store repository.Store, accounts AccountService, log *zap.Logger) MaintenanceService {
	return &maintenanceService{store: store, accounts: accounts, log: log}
}

func (s *maintenanceService) FixProfiles(ctx context.Context) (int, error) {
	accounts, err := s.store.Accounts().List(ctx, repository.AccountFilter{IncludeDeleted: true})
	if err != nil {
		return 0, err
	}

	fixed := 0
	for i := range accounts {
		if ResolveProfile(&accounts[i]).Exists() {
			continue
		}
		created, err := s.accounts.EnsureProfile(ctx, accounts[i].ID)
		if err != nil {
			return fixed, fmt.Errorf("account %s: %w", accounts[i].Username, err)
		}
		if created {
			fixed++
		}
	}
	s.log.Info("profiles reconciled", zap.Int("created", fixed))
	return fixed, nil
}

func (s *maintenanceService) FixArchiveTokens(ctx context.Context) (int, error) {
	fixed := 0
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		entries, err := tx.Archive().ListByID(ctx)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if !seen[e.Token] {
				seen[e.Token] = true
				continue
			}
			token := uuid.NewString()
			if err := tx.Archive().UpdateToken(ctx, e.ID, token); err != nil {
				return fmt.Errorf("retoken entry %d: %w", e.ID, err)
			}
			seen[token] = true
			fixed++
			s.log.Info("archive token regenerated", zap.Uint("archive_id", e.ID), zap.String("username", e.Username))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fixed, nil
}

func (s *maintenanceService) RotatePasswords(ctx context.Context) ([]RotatedCredential, error) {
	accounts, err := s.store.Accounts().List(ctx, repository.AccountFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}

	out := make([]RotatedCredential, 0, len(accounts))
	for _, a := range accounts {
		res, err := s.accounts.ResetCredential(ctx, a.ID)
		if err != nil {
			return out, fmt.Errorf("account %s: %w", a.Username, err)
		}
		out = append(out, RotatedCredential{
			Username:   res.Account.Username,
			Credential: res.Credential,
			LoginURL:   res.LoginURL,
		})
	}
	s.log.Info("passwords rotated", zap.Int("accounts", len(out)))
	return out, nil
}
