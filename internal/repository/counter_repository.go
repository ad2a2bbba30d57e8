package repository

import (
	"context"

	"press_admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository interface {
	// Lock returns the stored high-water mark for a sequence and holds a row
	// lock on it until the surrounding transaction ends.
	Lock(ctx context.Context, sequence string) (int, error)
	Set(ctx context.Context, sequence string, value int) error
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Lock(ctx context.Context, sequence string) (int, error) {
	db := r.db.WithContext(ctx)
	seed := models.IdentifierCounter{Sequence: sequence}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, translate(err)
	}

	var counter models.IdentifierCounter
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sequence = ?", sequence).
		First(&counter).Error
	if err != nil {
		return 0, translate(err)
	}
	return counter.Value, nil
}

func (r *counterRepository) Set(ctx context.Context, sequence string, value int) error {
	return translate(r.db.WithContext(ctx).Model(&models.IdentifierCounter{}).
		Where("sequence = ?", sequence).
		Update("value", value).Error)
}
