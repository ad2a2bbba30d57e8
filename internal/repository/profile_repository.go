package repository

import (
	"context"

	"press_admin/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	CreateStaff(ctx context.Context, profile *models.StaffProfile) error
	CreateCustomer(ctx context.Context, profile *models.CustomerProfile) error
	UpdateStaff(ctx context.Context, profile *models.StaffProfile) error
	UpdateCustomer(ctx context.Context, profile *models.CustomerProfile) error
	ContactTaken(ctx context.Context, contact string, excludeAccountID uint) (bool, error)
	ListCustomerIDs(ctx context.Context) ([]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateStaff(ctx context.Context, profile *models.StaffProfile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *profileRepository) CreateCustomer(ctx context.Context, profile *models.CustomerProfile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *profileRepository) UpdateStaff(ctx context.Context, profile *models.StaffProfile) error {
	return translate(r.db.WithContext(ctx).Save(profile).Error)
}

func (r *profileRepository) UpdateCustomer(ctx context.Context, profile *models.CustomerProfile) error {
	return translate(r.db.WithContext(ctx).Save(profile).Error)
}

// ContactTaken checks both profile tables, since a number may only belong to
// one account regardless of role.
func (r *profileRepository) ContactTaken(ctx context.Context, contact string, excludeAccountID uint) (bool, error) {
	for _, model := range []interface{}{&models.StaffProfile{}, &models.CustomerProfile{}} {
		var count int64
		q := r.db.WithContext(ctx).Model(model).Where("contact_number = ?", contact)
		if excludeAccountID != 0 {
			q = q.Where("account_id <> ?", excludeAccountID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, translate(err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *profileRepository) ListCustomerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.CustomerProfile{}).Pluck("customer_id", &ids).Error
	return ids, translate(err)
}
