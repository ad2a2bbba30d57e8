package services

import (
	"context"
	"io"
	"strings"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/models"
	"press_admin/internal/report"
	"press_admin/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type JobInput struct {
	Date           string           `json:"date" validate:"required,datetime=2006-01-02"`
	PartyName      string           `json:"party_name" validate:"required,max=255"`
	JobSize        string           `json:"job_size" validate:"max=100"`
	Paper          string           `json:"paper" validate:"max=100"`
	Quantity       string           `json:"quantity" validate:"max=100"`
	Total          decimal.Decimal  `json:"total"`
	PaymentType    string           `json:"payment_type" validate:"max=50"`
	JobDetails     string           `json:"job_details"`
	CTP            string           `json:"ctp" validate:"max=100"`
	PaperBy        string           `json:"paper_by" validate:"max=100"`
	Narration      string           `json:"narration"`
	LaminationSize string           `json:"lamination_size" validate:"max=100"`
	EnvelopeSize   string           `json:"envelope_size" validate:"max=100"`
	CTPNumber      *uint            `json:"ctp_number"`
	Cost           decimal.Decimal  `json:"cost"`
	PaperCost      decimal.Decimal  `json:"paper_cost"`
	LaminationCost decimal.Decimal  `json:"lamination_cost"`
	EnvelopeCost   decimal.Decimal  `json:"envelope_cost"`
	Received       decimal.Decimal  `json:"received"`
	Balance        *decimal.Decimal `json:"balance"`
}

type JobService interface {
	Create(ctx context.Context, in JobInput) (*models.Job, error)
	Get(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error)
	Update(ctx context.Context, id uint, in JobInput) (*models.Job, error)
	Delete(ctx context.Context, id uint) error
	PartyNames(ctx context.Context) ([]string, error)
	WorkbookSheets(r io.Reader) ([]string, error)
}

type jobService struct {
	store repository.Store
	log   *zap.Logger
}

func NewJobService(store repository.Store, log *zap.Logger) JobService {
	return &jobService{store: store, log: log}
}

var maxAmount = decimal.New(1, 10) // numeric(12,2)

// checkAmounts bounds the values as stored, after rounding to cents.
func checkAmounts(in JobInput) error {
	errs := apperrors.ValidationErrors{}
	amounts := map[string]decimal.Decimal{
		"total":           in.Total,
		"cost":            in.Cost,
		"paper_cost":      in.PaperCost,
		"lamination_cost": in.LaminationCost,
		"envelope_cost":   in.EnvelopeCost,
		"received":        in.Received,
	}
	for field, v := range amounts {
		v = v.Round(2)
		if v.IsNegative() {
			errs[field] = "Ensure this value is greater than or equal to 0."
		} else if v.Abs().GreaterThanOrEqual(maxAmount) {
			errs[field] = "Ensure that there are no more than 12 digits in total."
		}
	}
	if in.Balance != nil && in.Balance.Round(2).Abs().GreaterThanOrEqual(maxAmount) {
		errs["balance"] = "Ensure that there are no more than 12 digits in total."
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// apply copies the input onto job. Balance defaults to total minus received.
func (in JobInput) apply(job *models.Job) error {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return apperrors.Field("date", "Enter a valid date.")
	}

	job.Date = date
	job.PartyName = strings.TrimSpace(in.PartyName)
	job.JobSize = in.JobSize
	job.Paper = in.Paper
	job.Quantity = in.Quantity
	job.Total = in.Total.Round(2)
	job.PaymentType = in.PaymentType
	job.JobDetails = in.JobDetails
	job.CTP = in.CTP
	job.PaperBy = in.PaperBy
	job.Narration = in.Narration
	job.LaminationSize = in.LaminationSize
	job.EnvelopeSize = in.EnvelopeSize
	job.CTPNumber = in.CTPNumber
	job.Cost = in.Cost.Round(2)
	job.PaperCost = in.PaperCost.Round(2)
	job.LaminationCost = in.LaminationCost.Round(2)
	job.EnvelopeCost = in.EnvelopeCost.Round(2)
	job.Received = in.Received.Round(2)
	if in.Balance != nil {
		job.Balance = in.Balance.Round(2)
	} else {
		job.Balance = job.Total.Sub(job.Received)
	}
	return nil
}

func (s *jobService) validate(in JobInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	return checkAmounts(in)
}

func (s *jobService) Create(ctx context.Context, in JobInput) (*models.Job, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	job := &models.Job{}
	if err := in.apply(job); err != nil {
		return nil, err
	}
	if err := s.store.Jobs().Create(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info("job created", zap.Uint("job_id", job.ID), zap.String("party", job.PartyName))
	return job, nil
}

func (s *jobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	return s.store.Jobs().GetByID(ctx, id)
}

func (s *jobService) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.Field("from", "Start date must not be after end date.")
	}
	return s.store.Jobs().List(ctx, filter)
}

func (s *jobService) Update(ctx context.Context, id uint, in JobInput) (*models.Job, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(job); err != nil {
		return nil, err
	}
	if err := s.store.Jobs().Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Jobs().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("job deleted", zap.Uint("job_id", id))
	return nil
}

func (s *jobService) PartyNames(ctx context.Context) ([]string, error) {
	return s.store.Jobs().ListPartyNames(ctx)
}

// WorkbookSheets lists the sheet names of a party workbook; each sheet is one
// party.
func (s *jobService) WorkbookSheets(r io.Reader) ([]string, error) {
	names, err := report.SheetNames(r)
	if err != nil {
		s.log.Warn("could not read party workbook", zap.Error(err))
		return nil, apperrors.Field("file", "Upload a valid Excel workbook.")
	}
	return names, nil
}
