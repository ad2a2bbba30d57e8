package services

import (
	"context"
	"fmt"
	"strings"

	"press_admin/internal/apperrors"
	"press_admin/internal/metrics"
	"press_admin/internal/models"
	"press_admin/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CreateAccountInput struct {
	Role          models.Role `json:"role" validate:"required,oneof=Admin Staff Customer"`
	FirstName     string      `json:"first_name" validate:"max=150"`
	LastName      string      `json:"last_name" validate:"max=150"`
	Email         string      `json:"email" validate:"required,email,max=254"`
	ContactNumber string      `json:"contact_number" validate:"max=20"`
	PressName     string      `json:"press_name" validate:"max=255"`
	Category      string      `json:"category"`
}

type UpdateAccountInput struct {
	Username      string `json:"username" validate:"required,max=32"`
	FirstName     string `json:"first_name" validate:"max=150"`
	LastName      string `json:"last_name" validate:"max=150"`
	Email         string `json:"email" validate:"required,email,max=254"`
	ContactNumber string `json:"contact_number" validate:"max=20"`
	PressName     string `json:"press_name" validate:"max=255"`
	Category      string `json:"category"`
	// Password replaces the current credential when set.
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

// ProvisionResult carries the one time credential back to the caller.
type ProvisionResult struct {
	Account    *models.Account
	Credential string
	LoginURL   string
}

type AccountService interface {
	Create(ctx context.Context, in CreateAccountInput) (*ProvisionResult, error)
	Update(ctx context.Context, id uint, in UpdateAccountInput) (*models.Account, error)
	Get(ctx context.Context, id uint) (*models.Account, error)
	List(ctx context.Context, filter repository.AccountFilter) ([]models.Account, error)
	// ResetCredential issues a fresh random password for the account.
	ResetCredential(ctx context.Context, id uint) (*ProvisionResult, error)
	// EnsureProfile creates the missing profile for an account, if any.
	EnsureProfile(ctx context.Context, id uint) (bool, error)
	LoginURL() string
}

type accountService struct {
	store       repository.Store
	credentials CredentialGenerator
	loginURL    string
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewAccountService(store repository.Store, credentials CredentialGenerator, loginURL string, m *metrics.Metrics, log *zap.Logger) AccountService {
	return &accountService{
		store:       store,
		credentials: credentials,
		loginURL:    loginURL,
		metrics:     m,
		log:         log,
	}
}

func (s *accountService) LoginURL() string {
	return s.loginURL
}

func (in *CreateAccountInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.PressName = strings.TrimSpace(in.PressName)
	in.Category = strings.TrimSpace(in.Category)
}

func (in *UpdateAccountInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.PressName = strings.TrimSpace(in.PressName)
	in.Category = strings.TrimSpace(in.Category)
}

func validateCategory(kind ProfileKind, category string) error {
	var ok bool
	switch kind {
	case ProfileStaff:
		ok = models.StaffCategory(category).Valid()
	default:
		ok = models.CustomerCategory(category).Valid()
	}
	if !ok {
		return apperrors.Field("category", "Select a valid choice.")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func hashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func applyRoleFlags(account *models.Account) {
	account.IsSuperuser = account.Role == models.RoleAdmin
	account.IsStaff = account.Role == models.RoleAdmin
}

type profileFields struct {
	contact    string
	pressName  string
	category   string
	credential string
}

// attachProfile creates the single profile row that matches the account's
// role. Customer profiles also receive the next customer id.
func attachProfile(ctx context.Context, tx repository.Store, account *models.Account, f profileFields) error {
	switch ProfileVariant(account) {
	case ProfileStaff:
		profile := &models.StaffProfile{
			AccountID:       account.ID,
			ContactNumber:   optional(f.contact),
			PressName:       f.pressName,
			PlainCredential: f.credential,
			Category:        models.StaffCategory(f.category),
		}
		if err := tx.Profiles().CreateStaff(ctx, profile); err != nil {
			return fmt.Errorf("create staff profile: %w", err)
		}
		account.StaffProfile = profile
	default:
		customerID, err := NextIdentifier(ctx, tx, CustomerIDs)
		if err != nil {
			return err
		}
		profile := &models.CustomerProfile{
			AccountID:       account.ID,
			CustomerID:      customerID,
			ContactNumber:   optional(f.contact),
			PressName:       f.pressName,
			PlainCredential: f.credential,
			Category:        models.CustomerCategory(f.category),
		}
		if err := tx.Profiles().CreateCustomer(ctx, profile); err != nil {
			return fmt.Errorf("create customer profile: %w", err)
		}
		account.CustomerProfile = profile
	}
	return nil
}

func (s *accountService) Create(ctx context.Context, in CreateAccountInput) (*ProvisionResult, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := validateCategory(ProfileVariantForRole(in.Role), in.Category); err != nil {
		return nil, err
	}

	credential, err := s.credentials.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := hashCredential(credential)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		taken, err := tx.Accounts().EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrDuplicateEmail
		}
		if in.ContactNumber != "" {
			taken, err := tx.Profiles().ContactTaken(ctx, in.ContactNumber, 0)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateContact
			}
		}

		username, err := NextIdentifier(ctx, tx, UsernameSequence(in.Role))
		if err != nil {
			return err
		}

		account = &models.Account{
			Username:     username,
			Email:        in.Email,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			PasswordHash: hash,
			Role:         in.Role,
		}
		applyRoleFlags(account)
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		return attachProfile(ctx, tx, account, profileFields{
			contact:    in.ContactNumber,
			pressName:  in.PressName,
			category:   in.Category,
			credential: credential,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AccountsProvisioned.WithLabelValues(string(account.Role)).Inc()
	s.log.Info("account provisioned",
		zap.Uint("account_id", account.ID),
		zap.String("username", account.Username),
		zap.String("role", string(account.Role)),
	)

	return &ProvisionResult{Account: account, Credential: credential, LoginURL: s.loginURL}, nil
}

func (s *accountService) Update(ctx context.Context, id uint, in UpdateAccountInput) (*models.Account, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var account *models.Account
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		account, err = tx.Accounts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := validateCategory(ProfileVariant(account), in.Category); err != nil {
			return err
		}

		if taken, err := tx.Accounts().UsernameTaken(ctx, in.Username, id); err != nil {
			return err
		} else if taken {
			return apperrors.ErrDuplicateUsername
		}
		if taken, err := tx.Accounts().EmailTaken(ctx, in.Email, id); err != nil {
			return err
		} else if taken {
			return apperrors.ErrDuplicateEmail
		}
		if in.ContactNumber != "" {
			if taken, err := tx.Profiles().ContactTaken(ctx, in.ContactNumber, id); err != nil {
				return err
			} else if taken {
				return apperrors.ErrDuplicateContact
			}
		}

		account.Username = in.Username
		account.Email = in.Email
		account.FirstName = in.FirstName
		account.LastName = in.LastName
		if in.Password != "" {
			hash, err := hashCredential(in.Password)
			if err != nil {
				return err
			}
			account.PasswordHash = hash
		}
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		return updateProfile(ctx, tx, account, in)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("account updated", zap.Uint("account_id", id), zap.Bool("credential_changed", in.Password != ""))
	return account, nil
}

// updateProfile writes the edited fields to the profile the account already
// has. Profiles are only ever created at provisioning time.
func updateProfile(ctx context.Context, tx repository.Store, account *models.Account, in UpdateAccountInput) error {
	ref := ResolveProfile(account)
	switch ref.Kind {
	case ProfileStaff:
		p := ref.Staff
		p.ContactNumber = optional(in.ContactNumber)
		p.PressName = in.PressName
		p.Category = models.StaffCategory(in.Category)
		if in.Password != "" {
			p.PlainCredential = in.Password
		}
		return tx.Profiles().UpdateStaff(ctx, p)
	case ProfileCustomer:
		p := ref.Customer
		p.ContactNumber = optional(in.ContactNumber)
		p.PressName = in.PressName
		p.Category = models.CustomerCategory(in.Category)
		if in.Password != "" {
			p.PlainCredential = in.Password
		}
		return tx.Profiles().UpdateCustomer(ctx, p)
	}
	return nil
}

func (s *accountService) Get(ctx context.Context, id uint) (*models.Account, error) {
	return s.store.Accounts().GetByID(ctx, id)
}

func (s *accountService) List(ctx context.Context, filter repository.AccountFilter) ([]models.Account, error) {
	return s.store.Accounts().List(ctx, filter)
}

func (s *accountService) ResetCredential(ctx context.Context, id uint) (*ProvisionResult, error) {
	credential, err := s.credentials.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := hashCredential(credential)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		account, err = tx.Accounts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		account.PasswordHash = hash
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}

		ref := ResolveProfile(account)
		switch ref.Kind {
		case ProfileStaff:
			ref.Staff.PlainCredential = credential
			return tx.Profiles().UpdateStaff(ctx, ref.Staff)
		case ProfileCustomer:
			ref.Customer.PlainCredential = credential
			return tx.Profiles().UpdateCustomer(ctx, ref.Customer)
		}
		return attachProfile(ctx, tx, account, profileFields{credential: credential})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("credential reset", zap.Uint("account_id", id))
	return &ProvisionResult{Account: account, Credential: credential, LoginURL: s.loginURL}, nil
}

func (s *accountService) EnsureProfile(ctx context.Context, id uint) (bool, error) {
	created := false
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ResolveProfile(account).Exists() {
			return nil
		}
		created = true
		return attachProfile(ctx, tx, account, profileFields{})
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("missing profile created", zap.Uint("account_id", id))
	}
	return created, nil
}
