package repository

import (
	"context"
	"strings"
	"time"

	"press_admin/internal/models"

	"gorm.io/gorm"
)

type JobFilter struct {
	From      *time.Time
	To        *time.Time
	PartyName string
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, error)
	ListPartyNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	var jobs []models.Job
	q := r.db.WithContext(ctx).Order("date DESC").Order("id DESC")
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.PartyName != "" {
		q = q.Where(`party_name ILIKE ? ESCAPE '\'`, "%"+escapeLike(filter.PartyName)+"%")
	}
	err := q.Find(&jobs).Error
	return jobs, translate(err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *jobRepository) ListPartyNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Job{}).Distinct("party_name").Order("party_name").Pluck("party_name", &names).Error
	return names, translate(err)
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Save(job).Error)
}

func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
