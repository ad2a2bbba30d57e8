package repository

import (
	"context"
	"errors"
	"fmt"

	"press_admin/internal/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// Store groups the repositories and runs them inside a single transaction.
type Store interface {
	Accounts() AccountRepository
	Profiles() ProfileRepository
	Archive() ArchiveRepository
	Counters() CounterRepository
	Jobs() JobRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() AccountRepository { return &accountRepository{db: s.db} }
func (s *gormStore) Profiles() ProfileRepository { return &profileRepository{db: s.db} }
func (s *gormStore) Archive() ArchiveRepository  { return &archiveRepository{db: s.db} }
func (s *gormStore) Counters() CounterRepository { return &counterRepository{db: s.db} }
func (s *gormStore) Jobs() JobRepository         { return &jobRepository{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps driver errors onto the application error set.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", apperrors.ErrIntegrityConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", apperrors.ErrIntegrityConflict, pgErr.ConstraintName)
	}
	return err
}
