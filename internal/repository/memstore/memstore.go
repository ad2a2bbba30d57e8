// Package memstore is an in-memory repository.Store used by service and
// handler tests. It enforces the same unique constraints as the schema.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"press_admin/internal/apperrors"
	"press_admin/internal/models"
	"press_admin/internal/repository"
)

type state struct {
	accounts  map[uint]models.Account
	staff     map[uint]models.StaffProfile
	customers map[uint]models.CustomerProfile
	archive   map[uint]models.ArchivedAccount
	counters  map[string]int
	jobs      map[uint]models.Job
	nextID    uint
}

func (s *state) clone() *state {
	c := &state{
		accounts:  make(map[uint]models.Account, len(s.accounts)),
		staff:     make(map[uint]models.StaffProfile, len(s.staff)),
		customers: make(map[uint]models.CustomerProfile, len(s.customers)),
		archive:   make(map[uint]models.ArchivedAccount, len(s.archive)),
		counters:  make(map[string]int, len(s.counters)),
		jobs:      make(map[uint]models.Job, len(s.jobs)),
		nextID:    s.nextID,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.staff {
		c.staff[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.archive {
		c.archive[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}
	return c
}

// Store is safe for concurrent use; transactions are serialised.
type Store struct {
	mu     *sync.Mutex
	st     *state
	inTx   bool
	FailOn map[string]error
}

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		st: &state{
			accounts:  map[uint]models.Account{},
			staff:     map[uint]models.StaffProfile{},
			customers: map[uint]models.CustomerProfile{},
			archive:   map[uint]models.ArchivedAccount{},
			counters:  map[string]int{},
			jobs:      map[uint]models.Job{},
		},
		FailOn: map[string]error{},
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *Store) id() uint {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) Accounts() repository.AccountRepository { return accounts{s} }
func (s *Store) Profiles() repository.ProfileRepository { return profiles{s} }
func (s *Store) Archive() repository.ArchiveRepository  { return archive{s} }
func (s *Store) Counters() repository.CounterRepository { return counters{s} }
func (s *Store) Jobs() repository.JobRepository         { return jobs{s} }

func (s *Store) Ping(context.Context) error { return nil }

// Transaction runs fn against a copy of the data and keeps the copy only when
// fn succeeds.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	unlock := s.lock()
	defer unlock()

	tx := &Store{mu: s.mu, st: s.st.clone(), inTx: true, FailOn: s.FailOn}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

// SeedArchive inserts recycle bin rows directly, bypassing unique checks.
func (s *Store) SeedArchive(entries ...models.ArchivedAccount) {
	unlock := s.lock()
	defer unlock()
	for _, e := range entries {
		if e.ID == 0 {
			e.ID = s.id()
		}
		s.st.archive[e.ID] = e
	}
}

func conflict(what string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrIntegrityConflict, what)
}

type accounts struct{ s *Store }

func (r accounts) attach(a models.Account) *models.Account {
	a.StaffProfile, a.CustomerProfile = nil, nil
	for _, p := range r.s.st.staff {
		if p.AccountID == a.ID {
			p := p
			a.StaffProfile = &p
		}
	}
	for _, p := range r.s.st.customers {
		if p.AccountID == a.ID {
			p := p
			a.CustomerProfile = &p
		}
	}
	return &a
}

func (r accounts) unique(a *models.Account) error {
	for id, other := range r.s.st.accounts {
		if id == a.ID {
			continue
		}
		if strings.EqualFold(other.Username, a.Username) {
			return conflict("accounts_username_key")
		}
		if strings.EqualFold(other.Email, a.Email) {
			return conflict("accounts_email_key")
		}
	}
	return nil
}

func (r accounts) Create(_ context.Context, a *models.Account) error {
	unlock := r.s.lock()
	defer unlock()
	if err := r.s.fail("accounts.create"); err != nil {
		return err
	}
	if err := r.unique(a); err != nil {
		return err
	}
	a.ID = r.s.id()
	if a.DateJoined.IsZero() {
		a.DateJoined = time.Now()
	}
	row := *a
	row.StaffProfile, row.CustomerProfile = nil, nil
	r.s.st.accounts[a.ID] = row
	return nil
}

func (r accounts) GetByID(_ context.Context, id uint) (*models.Account, error) {
	unlock := r.s.lock()
	defer unlock()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.attach(a), nil
}

func (r accounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	unlock := r.s.lock()
	defer unlock()
	for _, a := range r.s.st.accounts {
		if a.Username == username {
			return r.attach(a), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r accounts) List(_ context.Context, f repository.AccountFilter) ([]models.Account, error) {
	unlock := r.s.lock()
	defer unlock()
	var out []models.Account
	for _, a := range r.s.st.accounts {
		if a.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		out = append(out, *r.attach(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r accounts) ListUsernames(_ context.Context, prefix string) ([]string, error) {
	unlock := r.s.lock()
	defer unlock()
	var out []string
	for _, a := range r.s.st.accounts {
		if strings.HasPrefix(a.Username, prefix) {
			out = append(out, a.Username)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r accounts) UsernameTaken(_ context.Context, username string, excludeID uint) (bool, error) {
	unlock := r.s.lock()
	defer unlock()
	for id, a := range r.s.st.accounts {
		if id != excludeID && strings.EqualFold(a.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r accounts) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	unlock := r.s.lock()
	defer unlock()
	for id, a := range r.s.st.accounts {
		if id != excludeID && strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r accounts) Update(_ context.Context, a *models.Account) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.accounts[a.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := r.unique(a); err != nil {
		return err
	}
	row := *a
	row.StaffProfile, row.CustomerProfile = nil, nil
	r.s.st.accounts[a.ID] = row
	return nil
}

func (r accounts) SetDeleted(_ context.Context, id uint, at *time.Time) error {
	unlock := r.s.lock()
	defer unlock()
	if err := r.s.fail("accounts.set_deleted"); err != nil {
		return err
	}
	a, ok := r.s.st.accounts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.IsDeleted = at != nil
	a.DeletedAt = at
	r.s.st.accounts[id] = a
	return nil
}

func (r accounts) HardDelete(_ context.Context, id uint) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.accounts[id]; !ok {
		return apperrors.ErrNotFound
	}
	for pid, p := range r.s.st.staff {
		if p.AccountID == id {
			delete(r.s.st.staff, pid)
		}
	}
	for pid, p := range r.s.st.customers {
		if p.AccountID == id {
			delete(r.s.st.customers, pid)
		}
	}
	delete(r.s.st.accounts, id)
	return nil
}

func (r accounts) Count(context.Context) (int64, error) {
	unlock := r.s.lock()
	defer unlock()
	return int64(len(r.s.st.accounts)), nil
}

type profiles struct{ s *Store }

func (r profiles) contactTaken(contact *string, accountID uint) bool {
	if contact == nil {
		return false
	}
	for _, p := range r.s.st.staff {
		if p.AccountID != accountID && p.ContactNumber != nil && *p.ContactNumber == *contact {
			return true
		}
	}
	for _, p := range r.s.st.customers {
		if p.AccountID != accountID && p.ContactNumber != nil && *p.ContactNumber == *contact {
			return true
		}
	}
	return false
}

func (r profiles) CreateStaff(_ context.Context, p *models.StaffProfile) error {
	unlock := r.s.lock()
	defer unlock()
	if err := r.s.fail("profiles.create_staff"); err != nil {
		return err
	}
	for _, other := range r.s.st.staff {
		if other.AccountID == p.AccountID {
			return conflict("staff_profiles_account_id")
		}
	}
	if r.contactTaken(p.ContactNumber, p.AccountID) {
		return conflict("staff_profiles_contact_number")
	}
	p.ID = r.s.id()
	r.s.st.staff[p.ID] = *p
	return nil
}

func (r profiles) CreateCustomer(_ context.Context, p *models.CustomerProfile) error {
	unlock := r.s.lock()
	defer unlock()
	if err := r.s.fail("profiles.create_customer"); err != nil {
		return err
	}
	for _, other := range r.s.st.customers {
		if other.AccountID == p.AccountID {
			return conflict("customer_profiles_account_id")
		}
		if other.CustomerID == p.CustomerID {
			return conflict("customer_profiles_customer_id")
		}
	}
	if r.contactTaken(p.ContactNumber, p.AccountID) {
		return conflict("customer_profiles_contact_number")
	}
	p.ID = r.s.id()
	r.s.st.customers[p.ID] = *p
	return nil
}

func (r profiles) UpdateStaff(_ context.Context, p *models.StaffProfile) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.staff[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if r.contactTaken(p.ContactNumber, p.AccountID) {
		return conflict("staff_profiles_contact_number")
	}
	r.s.st.staff[p.ID] = *p
	return nil
}

func (r profiles) UpdateCustomer(_ context.Context, p *models.CustomerProfile) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.customers[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if r.contactTaken(p.ContactNumber, p.AccountID) {
		return conflict("customer_profiles_contact_number")
	}
	r.s.st.customers[p.ID] = *p
	return nil
}

func (r profiles) ContactTaken(_ context.Context, contact string, excludeAccountID uint) (bool, error) {
	unlock := r.s.lock()
	defer unlock()
	return r.contactTaken(&contact, excludeAccountID), nil
}

func (r profiles) ListCustomerIDs(context.Context) ([]string, error) {
	unlock := r.s.lock()
	defer unlock()
	var out []string
	for _, p := range r.s.st.customers {
		out = append(out, p.CustomerID)
	}
	sort.Strings(out)
	return out, nil
}

type archive struct{ s *Store }

func (r archive) Create(_ context.Context, e *models.ArchivedAccount) error {
	unlock := r.s.lock()
	defer unlock()
	if err := r.s.fail("archive.create"); err != nil {
		return err
	}
	for _, other := range r.s.st.archive {
		if other.Token == e.Token {
			return conflict("archived_accounts_token")
		}
	}
	e.ID = r.s.id()
	r.s.st.archive[e.ID] = *e
	return nil
}

func (r archive) GetByID(_ context.Context, id uint) (*models.ArchivedAccount, error) {
	unlock := r.s.lock()
	defer unlock()
	e, ok := r.s.st.archive[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r archive) all() []models.ArchivedAccount {
	out := make([]models.ArchivedAccount, 0, len(r.s.st.archive))
	for _, e := range r.s.st.archive {
		out = append(out, e)
	}
	return out
}

func (r archive) List(context.Context) ([]models.ArchivedAccount, error) {
	unlock := r.s.lock()
	defer unlock()
	out := r.all()
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeletedAt.Equal(out[j].DeletedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].DeletedAt.After(out[j].DeletedAt)
	})
	return out, nil
}

func (r archive) ListByID(context.Context) ([]models.ArchivedAccount, error) {
	unlock := r.s.lock()
	defer unlock()
	out := r.all()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r archive) UpdateToken(_ context.Context, id uint, token string) error {
	unlock := r.s.lock()
	defer unlock()
	e, ok := r.s.st.archive[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Token = token
	r.s.st.archive[id] = e
	return nil
}

func (r archive) Delete(_ context.Context, id uint) error {
	unlock := r.s.lock()
	defer unlock()
	delete(r.s.st.archive, id)
	return nil
}

type counters struct{ s *Store }

func (r counters) Lock(_ context.Context, sequence string) (int, error) {
	unlock := r.s.lock()
	defer unlock()
	return r.s.st.counters[sequence], nil
}

func (r counters) Set(_ context.Context, sequence string, value int) error {
	unlock := r.s.lock()
	defer unlock()
	r.s.st.counters[sequence] = value
	return nil
}

type jobs struct{ s *Store }

func (r jobs) Create(_ context.Context, j *models.Job) error {
	unlock := r.s.lock()
	defer unlock()
	j.ID = r.s.id()
	r.s.st.jobs[j.ID] = *j
	return nil
}

func (r jobs) GetByID(_ context.Context, id uint) (*models.Job, error) {
	unlock := r.s.lock()
	defer unlock()
	j, ok := r.s.st.jobs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &j, nil
}

func (r jobs) List(_ context.Context, f repository.JobFilter) ([]models.Job, error) {
	unlock := r.s.lock()
	defer unlock()
	var out []models.Job
	for _, j := range r.s.st.jobs {
		if f.From != nil && j.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && j.Date.After(*f.To) {
			continue
		}
		if f.PartyName != "" && !strings.Contains(strings.ToLower(j.PartyName), strings.ToLower(f.PartyName)) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Date.Equal(out[k].Date) {
			return out[i].ID > out[k].ID
		}
		return out[i].Date.After(out[k].Date)
	})
	return out, nil
}

func (r jobs) ListPartyNames(context.Context) ([]string, error) {
	unlock := r.s.lock()
	defer unlock()
	seen := map[string]bool{}
	var out []string
	for _, j := range r.s.st.jobs {
		if !seen[j.PartyName] {
			seen[j.PartyName] = true
			out = append(out, j.PartyName)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r jobs) Update(_ context.Context, j *models.Job) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.jobs[j.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.st.jobs[j.ID] = *j
	return nil
}

func (r jobs) Delete(_ context.Context, id uint) error {
	unlock := r.s.lock()
	defer unlock()
	if _, ok := r.s.st.jobs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.st.jobs, id)
	return nil
}

var _ repository.Store = (*Store)(nil)
