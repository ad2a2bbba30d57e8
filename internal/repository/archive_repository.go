package repository

import (
	"context"

	"press_admin/internal/models"

	"gorm.io/gorm"
)

type ArchiveRepository interface {
	Create(ctx context.Context, entry *models.ArchivedAccount) error
	GetByID(ctx context.Context, id uint) (*models.ArchivedAccount, error)
	// List returns the recycle bin, newest deletion first.
	List(ctx context.Context) ([]models.ArchivedAccount, error)
	// ListByID returns every entry in insertion order.
	ListByID(ctx context.Context) ([]models.ArchivedAccount, error)
	UpdateToken(ctx context.Context, id uint, token string) error
	Delete(ctx context.Context, id uint) error
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Create(ctx context.Context, entry *models.ArchivedAccount) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *archiveRepository) GetByID(ctx context.Context, id uint) (*models.ArchivedAccount, error) {
	var entry models.ArchivedAccount
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *archiveRepository) List(ctx context.Context) ([]models.ArchivedAccount, error) {
	var entries []models.ArchivedAccount
	err := r.db.WithContext(ctx).Order("deleted_at DESC").Order("id DESC").Find(&entries).Error
	return entries, translate(err)
}

func (r *archiveRepository) ListByID(ctx context.Context) ([]models.ArchivedAccount, error) {
	var entries []models.ArchivedAccount
	err := r.db.WithContext(ctx).Order("id").Find(&entries).Error
	return entries, translate(err)
}

func (r *archiveRepository) UpdateToken(ctx context.Context, id uint, token string) error {
	res := r.db.WithContext(ctx).Model(&models.ArchivedAccount{}).Where("id = ?", id).Update("token", token)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *archiveRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.ArchivedAccount{}, id).Error)
}
