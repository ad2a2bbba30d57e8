package repository

import (
	"context"
	"time"

	"press_admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountFilter struct {
	IncludeDeleted bool
	Role           models.Role
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]models.Account, error)
	ListUsernames(ctx context.Context, prefix string) ([]string, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, account *models.Account) error
	SetDeleted(ctx context.Context, id uint, deletedAt *time.Time) error
	HardDelete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(account).Error)
}

func (r *accountRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("StaffProfile").Preload("CustomerProfile")
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.withProfiles(ctx).First(&account, id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.withProfiles(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]models.Account, error) {
	var accounts []models.Account
	q := r.withProfiles(ctx).Order("id")
	if !filter.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	err := q.Find(&accounts).Error
	return accounts, translate(err)
}

func (r *accountRepository) ListUsernames(ctx context.Context, prefix string) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("username LIKE ?", prefix+"%").
		Pluck("username", &usernames).Error
	return usernames, translate(err)
}

func (r *accountRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username, excludeID)
}

func (r *accountRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

func (r *accountRepository) exists(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Account{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error)
}

func (r *accountRepository) SetDeleted(ctx context.Context, id uint, deletedAt *time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_deleted": deletedAt != nil,
		"deleted_at": deletedAt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// HardDelete removes the account and whichever profile it has.
func (r *accountRepository) HardDelete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("account_id = ?", id).Delete(&models.StaffProfile{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("account_id = ?", id).Delete(&models.CustomerProfile{}).Error; err != nil {
		return translate(err)
	}
	res := db.Delete(&models.Account{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, translate(err)
}
