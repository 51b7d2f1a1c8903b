// Package memuow provides an in-memory UnitOfWork for service tests.
// The fakes are stateful, so multi-step flows (checkout then webhook
// settlement) can be exercised without a database.
package memuow

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository"
	activityrepo "github.com/natepay/natepay/pkg/repository/activity"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	paymentrepo "github.com/natepay/natepay/pkg/repository/payment"
	payrollrepo "github.com/natepay/natepay/pkg/repository/payroll"
	planrepo "github.com/natepay/natepay/pkg/repository/plan"
	subscriberrepo "github.com/natepay/natepay/pkg/repository/subscriber"
)

// MemoryUoW implements repository.UnitOfWork over in-memory stores.
type MemoryUoW struct {
	Creators    *CreatorRepo
	Plans       *PlanRepo
	Subscribers *SubscriberRepo
	Payments    *PaymentRepo
	Activities  *ActivityRepo
	Payroll     *PayrollRepo

	// DoErr, when set, is returned by Do without invoking the callback.
	DoErr error
}

// New creates an empty in-memory unit of work.
func New() *MemoryUoW {
	return &MemoryUoW{
		Creators:    &CreatorRepo{byID: map[uuid.UUID]dto.CreatorRead{}},
		Plans:       &PlanRepo{byID: map[uuid.UUID]dto.PlanRead{}},
		Subscribers: &SubscriberRepo{byID: map[uuid.UUID]dto.SubscriberRead{}},
		Payments:    &PaymentRepo{byID: map[uuid.UUID]dto.PaymentRead{}},
		Activities:  &ActivityRepo{},
		Payroll: &PayrollRepo{
			members: map[uuid.UUID]dto.MemberRead{},
			runs:    map[uuid.UUID]dto.RunRead{},
			items:   map[uuid.UUID]dto.RunItemRead{},
		},
	}
}

// Do runs the callback against the same in-memory state. There is no
// transactionality; tests assert on final state.
func (u *MemoryUoW) Do(
	ctx context.Context,
	fn func(uow repository.UnitOfWork) error,
) error {
	if u.DoErr != nil {
		return u.DoErr
	}
	return fn(u)
}

// GetRepository resolves a repository by its typed-nil interface pointer.
func (u *MemoryUoW) GetRepository(repoType any) (any, error) {
	switch repoType.(type) {
	case *creatorrepo.Repository:
		return u.Creators, nil
	case *planrepo.Repository:
		return u.Plans, nil
	case *subscriberrepo.Repository:
		return u.Subscribers, nil
	case *paymentrepo.Repository:
		return u.Payments, nil
	case *activityrepo.Repository:
		return u.Activities, nil
	case *payrollrepo.Repository:
		return u.Payroll, nil
	default:
		return nil, fmt.Errorf("unsupported repository type %T", repoType)
	}
}

var _ repository.UnitOfWork = (*MemoryUoW)(nil)

// CreatorRepo is an in-memory creator repository.
type CreatorRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]dto.CreatorRead
}

func (r *CreatorRepo) Create(
	_ context.Context, create dto.CreatorCreate,
) (*dto.CreatorRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.CreatorRead{
		ID:               create.ID,
		Handle:           create.Handle,
		Email:            create.Email,
		HashedPassword:   create.Password,
		CountryCode:      create.CountryCode,
		OnboardingStatus: "none",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.byID[create.ID] = read
	return &read, nil
}

func (r *CreatorRepo) Get(
	_ context.Context, id uuid.UUID,
) (*dto.CreatorRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CreatorRepo) GetByEmail(
	_ context.Context, email string,
) (*dto.CreatorRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CreatorRepo) GetByHandle(
	_ context.Context, handle string,
) (*dto.CreatorRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Handle == handle {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CreatorRepo) Update(
	_ context.Context, id uuid.UUID, update dto.CreatorUpdate,
) (*dto.CreatorRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if update.DisplayName != nil {
		c.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		c.Bio = *update.Bio
	}
	if update.Email != nil {
		c.Email = *update.Email
	}
	if update.Password != nil {
		c.HashedPassword = *update.Password
	}
	if update.StripeAccountID != nil {
		c.StripeAccountID = *update.StripeAccountID
	}
	if update.PaystackSubCode != nil {
		c.PaystackSubCode = *update.PaystackSubCode
	}
	if update.OnboardingStatus != nil {
		c.OnboardingStatus = *update.OnboardingStatus
	}
	c.UpdatedAt = time.Now().UTC()
	r.byID[id] = c
	return &c, nil
}

func (r *CreatorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

var _ creatorrepo.Repository = (*CreatorRepo)(nil)

// PlanRepo is an in-memory plan repository.
type PlanRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]dto.PlanRead
}

func (r *PlanRepo) Create(
	_ context.Context, create dto.PlanCreate,
) (*dto.PlanRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.PlanRead{
		ID:            create.ID,
		CreatorID:     create.CreatorID,
		Name:          create.Name,
		PriceUSDCents: create.PriceUSDCents,
		Interval:      create.Interval,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.byID[create.ID] = read
	return &read, nil
}

func (r *PlanRepo) Get(_ context.Context, id uuid.UUID) (*dto.PlanRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *PlanRepo) ListByCreator(
	_ context.Context, creatorID uuid.UUID, activeOnly bool,
) ([]dto.PlanRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.PlanRead
	for _, p := range r.byID {
		if p.CreatorID != creatorID {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PlanRepo) Update(
	_ context.Context, id uuid.UUID, update dto.PlanUpdate,
) (*dto.PlanRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.PriceUSDCents != nil {
		p.PriceUSDCents = *update.PriceUSDCents
	}
	if update.Active != nil {
		p.Active = *update.Active
	}
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return &p, nil
}

func (r *PlanRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

var _ planrepo.Repository = (*PlanRepo)(nil)

// SubscriberRepo is an in-memory subscriber repository.
type SubscriberRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]dto.SubscriberRead
}

func (r *SubscriberRepo) Create(
	_ context.Context, create dto.SubscriberCreate,
) (*dto.SubscriberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.SubscriberRead{
		ID:          create.ID,
		CreatorID:   create.CreatorID,
		PlanID:      create.PlanID,
		Email:       create.Email,
		Name:        create.Name,
		Status:      create.Status,
		ProviderRef: create.ProviderRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.byID[create.ID] = read
	return &read, nil
}

func (r *SubscriberRepo) Get(
	_ context.Context, id uuid.UUID,
) (*dto.SubscriberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *SubscriberRepo) GetByProviderRef(
	_ context.Context, providerRef string,
) (*dto.SubscriberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.ProviderRef == providerRef {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SubscriberRepo) ListByCreator(
	_ context.Context, creatorID uuid.UUID, limit, offset int,
) ([]dto.SubscriberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.SubscriberRead
	for _, s := range r.byID {
		if s.CreatorID == creatorID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), nil
}

func (r *SubscriberRepo) CountActiveByCreator(
	_ context.Context, creatorID uuid.UUID,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.byID {
		if s.CreatorID == creatorID && s.Status == "active" {
			n++
		}
	}
	return n, nil
}

func (r *SubscriberRepo) Update(
	_ context.Context, id uuid.UUID, update dto.SubscriberUpdate,
) (*dto.SubscriberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if update.Status != nil {
		s.Status = *update.Status
	}
	if update.ProviderRef != nil {
		s.ProviderRef = *update.ProviderRef
	}
	s.UpdatedAt = time.Now().UTC()
	r.byID[id] = s
	return &s, nil
}

var _ subscriberrepo.Repository = (*SubscriberRepo)(nil)

// PaymentRepo is an in-memory payment repository.
type PaymentRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]dto.PaymentRead
}

func (r *PaymentRepo) Create(
	_ context.Context, create dto.PaymentCreate,
) (*dto.PaymentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.PaymentRead{
		ID:              create.ID,
		CreatorID:       create.CreatorID,
		SubscriberEmail: create.SubscriberEmail,
		AmountUSDCents:  create.AmountUSDCents,
		ChargedAmount:   create.ChargedAmount,
		ChargedCurrency: create.ChargedCurrency,
		Provider:        create.Provider,
		Status:          create.Status,
		ProviderRef:     create.ProviderRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.byID[create.ID] = read
	return &read, nil
}

func (r *PaymentRepo) Get(
	_ context.Context, id uuid.UUID,
) (*dto.PaymentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *PaymentRepo) GetByProviderRef(
	_ context.Context, providerRef string,
) (*dto.PaymentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.ProviderRef == providerRef {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepo) ListByCreator(
	_ context.Context, creatorID uuid.UUID, limit, offset int,
) ([]dto.PaymentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.PaymentRead
	for _, p := range r.byID {
		if p.CreatorID == creatorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), nil
}

func (r *PaymentRepo) Update(
	_ context.Context, id uuid.UUID, update dto.PaymentUpdate,
) (*dto.PaymentRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	if update.ProviderRef != nil {
		p.ProviderRef = *update.ProviderRef
	}
	p.UpdatedAt = time.Now().UTC()
	r.byID[id] = p
	return &p, nil
}

var _ paymentrepo.Repository = (*PaymentRepo)(nil)

// ActivityRepo is an in-memory append-only activity repository.
type ActivityRepo struct {
	mu      sync.Mutex
	entries []dto.ActivityRead
}

func (r *ActivityRepo) Create(
	_ context.Context, create dto.ActivityCreate,
) (*dto.ActivityRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	read := dto.ActivityRead{
		ID:             create.ID,
		CreatorID:      create.CreatorID,
		Kind:           create.Kind,
		Actor:          create.Actor,
		AmountUSDCents: create.AmountUSDCents,
		CreatedAt:      create.CreatedAt,
	}
	r.entries = append(r.entries, read)
	return &read, nil
}

func (r *ActivityRepo) ListByCreator(
	_ context.Context, creatorID uuid.UUID, limit, offset int,
) ([]dto.ActivityRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.ActivityRead
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].CreatorID == creatorID {
			out = append(out, r.entries[i])
		}
	}
	return page(out, limit, offset), nil
}

var _ activityrepo.Repository = (*ActivityRepo)(nil)

// PayrollRepo is an in-memory payroll repository.
type PayrollRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]dto.MemberRead
	runs    map[uuid.UUID]dto.RunRead
	items   map[uuid.UUID]dto.RunItemRead
}

func (r *PayrollRepo) CreateMember(
	_ context.Context, create dto.MemberCreate,
) (*dto.MemberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.MemberRead{
		ID:             create.ID,
		CreatorID:      create.CreatorID,
		Name:           create.Name,
		Email:          create.Email,
		SalaryUSDCents: create.SalaryUSDCents,
		PayoutRef:      create.PayoutRef,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.members[create.ID] = read
	return &read, nil
}

func (r *PayrollRepo) GetMember(
	_ context.Context, id uuid.UUID,
) (*dto.MemberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *PayrollRepo) ListMembersByCreator(
	_ context.Context, creatorID uuid.UUID,
) ([]dto.MemberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.MemberRead
	for _, m := range r.members {
		if m.CreatorID == creatorID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PayrollRepo) UpdateMember(
	_ context.Context, id uuid.UUID, update dto.MemberUpdate,
) (*dto.MemberRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	if update.Name != nil {
		m.Name = *update.Name
	}
	if update.Email != nil {
		m.Email = *update.Email
	}
	if update.SalaryUSDCents != nil {
		m.SalaryUSDCents = *update.SalaryUSDCents
	}
	if update.PayoutRef != nil {
		m.PayoutRef = *update.PayoutRef
	}
	m.UpdatedAt = time.Now().UTC()
	r.members[id] = m
	return &m, nil
}

func (r *PayrollRepo) DeleteMember(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	return nil
}

func (r *PayrollRepo) CreateRun(
	_ context.Context, create dto.RunCreate,
) (*dto.RunRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	read := dto.RunRead{
		ID:            create.ID,
		CreatorID:     create.CreatorID,
		TotalUSDCents: create.TotalUSDCents,
		Status:        create.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.runs[create.ID] = read
	return &read, nil
}

func (r *PayrollRepo) GetRun(
	_ context.Context, id uuid.UUID,
) (*dto.RunRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		return &run, nil
	}
	return nil, nil
}

func (r *PayrollRepo) GetExecutingRun(
	_ context.Context, creatorID uuid.UUID,
) (*dto.RunRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.CreatorID == creatorID && run.Status == "executing" {
			return &run, nil
		}
	}
	return nil, nil
}

func (r *PayrollRepo) ListRunsByCreator(
	_ context.Context, creatorID uuid.UUID, limit, offset int,
) ([]dto.RunRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.RunRead
	for _, run := range r.runs {
		if run.CreatorID == creatorID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), nil
}

func (r *PayrollRepo) UpdateRun(
	_ context.Context, id uuid.UUID, update dto.RunUpdate,
) (*dto.RunRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	if update.Status != nil {
		run.Status = *update.Status
	}
	run.UpdatedAt = time.Now().UTC()
	r.runs[id] = run
	return &run, nil
}

func (r *PayrollRepo) CreateItems(
	_ context.Context, creates []dto.RunItemCreate,
) ([]dto.RunItemRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.RunItemRead, 0, len(creates))
	for _, c := range creates {
		read := dto.RunItemRead{
			ID:             c.ID,
			RunID:          c.RunID,
			MemberID:       c.MemberID,
			AmountUSDCents: c.AmountUSDCents,
			Status:         c.Status,
		}
		r.items[c.ID] = read
		out = append(out, read)
	}
	return out, nil
}

func (r *PayrollRepo) ListItemsByRun(
	_ context.Context, runID uuid.UUID,
) ([]dto.RunItemRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.RunItemRead
	for _, it := range r.items {
		if it.RunID == runID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *PayrollRepo) UpdateItem(
	_ context.Context, id uuid.UUID, update dto.RunItemUpdate,
) (*dto.RunItemRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	if update.Status != nil {
		it.Status = *update.Status
	}
	if update.ProviderRef != nil {
		it.ProviderRef = *update.ProviderRef
	}
	if update.FailureReason != nil {
		it.FailureReason = *update.FailureReason
	}
	r.items[id] = it
	return &it, nil
}

var _ payrollrepo.Repository = (*PayrollRepo)(nil)

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
