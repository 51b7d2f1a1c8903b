// Package payroll manages team members and executes payroll runs
// through the payment providers.
package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/domain/payment"
	"github.com/natepay/natepay/pkg/domain/payroll"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/eventbus"
	"github.com/natepay/natepay/pkg/money"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/repository"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	payrollrepo "github.com/natepay/natepay/pkg/repository/payroll"
)

// Service manages payroll members and runs.
type Service struct {
	uow       repository.UnitOfWork
	providers map[region.Provider]providerpay.Payment
	bus       eventbus.Bus
	logger    *slog.Logger
}

// New creates a payroll Service over the configured providers.
func New(
	uow repository.UnitOfWork,
	providers map[region.Provider]providerpay.Payment,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, providers: providers, bus: bus, logger: logger}
}

// MemberInput is what a creator submits when adding a team member.
type MemberInput struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	SalaryUSDCents int64  `json:"salary_usd_cents" validate:"required,gt=0"`
	// PayoutRef is the provider payout destination; members without one
	// cannot be included in a run.
	PayoutRef string `json:"payout_ref"`
}

// AddMember adds a team member with a canonical USD salary.
func (s *Service) AddMember(
	ctx context.Context,
	creatorID uuid.UUID,
	input MemberInput,
) (m *dto.MemberRead, err error) {
	log := s.logger.With("context", "AddMember", "creator_id", creatorID)

	d, err := payroll.NewMember(creatorID, input.Name, input.Email, input.SalaryUSDCents)
	if err != nil {
		return nil, err
	}
	d.PayoutRef = input.PayoutRef

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		m, err = repo.CreateMember(ctx, dto.MemberCreate{
			ID:             d.ID,
			CreatorID:      d.CreatorID,
			Name:           d.Name,
			Email:          d.Email,
			SalaryUSDCents: d.SalaryUSDCents,
			PayoutRef:      d.PayoutRef,
		})
		return err
	})
	if err != nil {
		m = nil
		return
	}
	log.Info("member added", "member_id", m.ID)
	return
}

// ListMembers returns all of the creator's team members.
func (s *Service) ListMembers(
	ctx context.Context,
	creatorID uuid.UUID,
) (members []dto.MemberRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		members, err = repo.ListMembersByCreator(ctx, creatorID)
		return err
	})
	if err != nil {
		members = nil
	}
	return
}

// UpdateMember changes a team member owned by the creator.
func (s *Service) UpdateMember(
	ctx context.Context,
	creatorID, memberID uuid.UUID,
	update dto.MemberUpdate,
) (m *dto.MemberRead, err error) {
	log := s.logger.With("context", "UpdateMember", "member_id", memberID)

	if update.SalaryUSDCents != nil && *update.SalaryUSDCents <= 0 {
		return nil, fmt.Errorf("salary must be positive")
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if existing == nil {
			return payroll.ErrMemberNotFound
		}
		if existing.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		m, err = repo.UpdateMember(ctx, memberID, update)
		return err
	})
	if err != nil {
		m = nil
		return
	}
	log.Info("member updated")
	return
}

// RemoveMember deletes a team member owned by the creator. Past run
// items keep their member snapshot amounts.
func (s *Service) RemoveMember(
	ctx context.Context,
	creatorID, memberID uuid.UUID,
) error {
	log := s.logger.With("context", "RemoveMember", "member_id", memberID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if existing == nil {
			return payroll.ErrMemberNotFound
		}
		if existing.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		return repo.DeleteMember(ctx, memberID)
	})
	if err != nil {
		return err
	}
	log.Info("member removed")
	return nil
}

// GetRun returns a run owned by the creator, with its items.
func (s *Service) GetRun(
	ctx context.Context,
	creatorID, runID uuid.UUID,
) (run *dto.RunRead, items []dto.RunItemRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		run, err = repo.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return payroll.ErrRunNotFound
		}
		if run.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		items, err = repo.ListItemsByRun(ctx, runID)
		return err
	})
	if err != nil {
		run, items = nil, nil
	}
	return
}

// ListRuns returns a page of the creator's runs, newest first.
func (s *Service) ListRuns(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) (runs []dto.RunRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		runs, err = repo.ListRunsByCreator(ctx, creatorID, limit, offset)
		return err
	})
	if err != nil {
		runs = nil
	}
	return
}

// ExecuteRun snapshots the creator's team into a run and pays each
// member through the creator's provider. Only one run may execute per
// creator at a time; the snapshot is immutable once taken, so salary
// edits during execution do not change what gets paid.
func (s *Service) ExecuteRun(
	ctx context.Context,
	creatorID uuid.UUID,
) (run *dto.RunRead, err error) {
	log := s.logger.With("context", "ExecuteRun", "creator_id", creatorID)

	var (
		items       []dto.RunItemRead
		members     map[uuid.UUID]dto.MemberRead
		prov        region.Provider
		countryCode string
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		crAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
		if err != nil {
			return err
		}
		c, err := crAny.(creatorrepo.Repository).Get(ctx, creatorID)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}
		country, ok := region.Get(c.CountryCode)
		if !ok {
			return creator.ErrUnsupportedCountry
		}
		prov, err = payoutProvider(c, country)
		if err != nil {
			return err
		}
		countryCode = c.CountryCode

		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		executing, err := repo.GetExecutingRun(ctx, creatorID)
		if err != nil {
			return err
		}
		if executing != nil {
			return payroll.ErrRunInProgress
		}

		memberReads, err := repo.ListMembersByCreator(ctx, creatorID)
		if err != nil {
			return err
		}
		if len(memberReads) == 0 {
			return payroll.ErrNoMembers
		}
		domainMembers := make([]*payroll.Member, 0, len(memberReads))
		members = make(map[uuid.UUID]dto.MemberRead, len(memberReads))
		for _, m := range memberReads {
			if m.PayoutRef == "" {
				return fmt.Errorf("%w: %s", payroll.ErrMemberNotOnboarded, m.Name)
			}
			members[m.ID] = m
			domainMembers = append(domainMembers, &payroll.Member{
				ID:             m.ID,
				SalaryUSDCents: m.SalaryUSDCents,
			})
		}

		d, dItems, err := payroll.NewRun(creatorID, domainMembers)
		if err != nil {
			return err
		}
		run, err = repo.CreateRun(ctx, dto.RunCreate{
			ID:            d.ID,
			CreatorID:     d.CreatorID,
			TotalUSDCents: d.TotalUSDCents,
			Status:        string(payroll.RunExecuting),
		})
		if err != nil {
			return err
		}
		creates := make([]dto.RunItemCreate, 0, len(dItems))
		for _, it := range dItems {
			creates = append(creates, dto.RunItemCreate{
				ID:             it.ID,
				RunID:          it.RunID,
				MemberID:       it.MemberID,
				AmountUSDCents: it.AmountUSDCents,
				Status:         string(it.Status),
			})
		}
		items, err = repo.CreateItems(ctx, creates)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("run started",
		"run_id", run.ID, "items", len(items), "provider", prov,
		"total_usd_cents", run.TotalUSDCents)

	p, ok := s.providers[prov]
	if !ok {
		s.failRun(ctx, run.ID, log)
		return nil, fmt.Errorf("provider %q not configured", prov)
	}

	for _, item := range items {
		member := members[item.MemberID]
		s.payItem(ctx, p, prov, countryCode, run.ID, item, member, log)
	}

	if err := s.finalizeRun(ctx, run.ID); err != nil {
		log.Error("failed to finalize run", "run_id", run.ID, "error", err)
	}

	return s.getRun(ctx, run.ID)
}

// payItem sends one payout and records the outcome. Failures are
// recorded on the item; they never abort the rest of the run.
func (s *Service) payItem(
	ctx context.Context,
	p providerpay.Payment,
	prov region.Provider,
	countryCode string,
	runID uuid.UUID,
	item dto.RunItemRead,
	member dto.MemberRead,
	log *slog.Logger,
) {
	amount, currency, err := payoutAmount(item.AmountUSDCents, prov, countryCode)
	if err != nil {
		s.recordItemFailure(ctx, item.ID, err.Error(), log)
		return
	}

	resp, err := p.InitiatePayout(ctx, &providerpay.PayoutParams{
		ItemID:       item.ID,
		RunID:        runID,
		RecipientRef: member.PayoutRef,
		Amount:       amount,
		Currency:     string(currency),
		Description:  "Payroll: " + member.Name,
	})
	if err != nil {
		s.recordItemFailure(ctx, item.ID, err.Error(), log)
		return
	}

	status := string(payroll.ItemPending)
	switch resp.Status {
	case providerpay.StatusCompleted:
		status = string(payroll.ItemCompleted)
	case providerpay.StatusFailed:
		status = string(payroll.ItemFailed)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.UpdateItem(ctx, item.ID, dto.RunItemUpdate{
			Status:      &status,
			ProviderRef: &resp.ProviderRef,
		})
		return err
	})
	if err != nil {
		log.Error("failed to record payout", "item_id", item.ID, "error", err)
		return
	}

	if status == string(payroll.ItemCompleted) {
		s.emitPayoutSent(ctx, member.CreatorID, member.Name,
			item.AmountUSDCents, resp.ProviderRef, log)
	}
}

// ApplyPayoutResult settles a payout webhook against its run item and
// finalizes the run when it was the last pending item. The webhook's
// PaymentID carries the run item ID.
func (s *Service) ApplyPayoutResult(
	ctx context.Context,
	result *providerpay.WebhookResult,
) error {
	log := s.logger.With(
		"context", "ApplyPayoutResult", "item_id", result.PaymentID)

	var (
		item *dto.RunItemRead
		run  *dto.RunRead
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		item, err = repo.UpdateItem(ctx, result.PaymentID, itemUpdateFor(result))
		if err != nil {
			return err
		}
		if item == nil {
			return payroll.ErrRunNotFound
		}
		run, err = repo.GetRun(ctx, item.RunID)
		return err
	})
	if err != nil {
		return err
	}

	if result.Kind == providerpay.WebhookPayoutSent && run != nil {
		var memberName string
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := getPayrollRepo(uow)
			if err != nil {
				return err
			}
			m, err := repo.GetMember(ctx, item.MemberID)
			if err != nil {
				return err
			}
			if m != nil {
				memberName = m.Name
			}
			return nil
		})
		if err == nil {
			s.emitPayoutSent(ctx, run.CreatorID, memberName,
				item.AmountUSDCents, result.ProviderRef, log)
		}
	}

	return s.finalizeRun(ctx, item.RunID)
}

// finalizeRun closes an executing run once no item is pending.
func (s *Service) finalizeRun(ctx context.Context, runID uuid.UUID) error {
	log := s.logger.With("context", "finalizeRun", "run_id", runID)

	var (
		run       *dto.RunRead
		completed bool
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		run, err = repo.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return payroll.ErrRunNotFound
		}
		if run.Status != string(payroll.RunExecuting) {
			return nil
		}
		items, err := repo.ListItemsByRun(ctx, runID)
		if err != nil {
			return err
		}
		anyFailed := false
		for _, it := range items {
			switch it.Status {
			case string(payroll.ItemPending):
				return nil
			case string(payroll.ItemFailed):
				anyFailed = true
			}
		}
		status := string(payroll.RunCompleted)
		if anyFailed {
			status = string(payroll.RunFailed)
		}
		run, err = repo.UpdateRun(ctx, runID, dto.RunUpdate{Status: &status})
		if err != nil {
			return err
		}
		completed = !anyFailed
		return nil
	})
	if err != nil {
		return err
	}

	if completed {
		if emitErr := s.bus.Emit(ctx, &events.PayrollRunCompleted{
			ID:            uuid.New(),
			CreatorID:     run.CreatorID,
			RunID:         run.ID,
			TotalUSDCents: run.TotalUSDCents,
			OccurredAt:    time.Now().UTC(),
		}); emitErr != nil {
			log.Error("failed to emit run event", "error", emitErr)
		}
		log.Info("run completed", "total_usd_cents", run.TotalUSDCents)
	}
	return nil
}

func (s *Service) emitPayoutSent(
	ctx context.Context,
	creatorID uuid.UUID,
	memberName string,
	amountUSDCents int64,
	payoutRef string,
	log *slog.Logger,
) {
	if emitErr := s.bus.Emit(ctx, &events.PayoutSent{
		ID:             uuid.New(),
		CreatorID:      creatorID,
		MemberName:     memberName,
		AmountUSDCents: amountUSDCents,
		PayoutRef:      payoutRef,
		OccurredAt:     time.Now().UTC(),
	}); emitErr != nil {
		log.Error("failed to emit payout event", "error", emitErr)
	}
}

func (s *Service) recordItemFailure(
	ctx context.Context,
	itemID uuid.UUID,
	reason string,
	log *slog.Logger,
) {
	failed := string(payroll.ItemFailed)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.UpdateItem(ctx, itemID, dto.RunItemUpdate{
			Status:        &failed,
			FailureReason: &reason,
		})
		return err
	})
	if err != nil {
		log.Error("failed to record item failure", "item_id", itemID, "error", err)
	}
	log.Warn("payout failed", "item_id", itemID, "reason", reason)
}

func (s *Service) failRun(ctx context.Context, runID uuid.UUID, log *slog.Logger) {
	failed := string(payroll.RunFailed)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.UpdateRun(ctx, runID, dto.RunUpdate{Status: &failed})
		return err
	})
	if err != nil {
		log.Error("failed to mark run failed", "run_id", runID, "error", err)
	}
}

func (s *Service) getRun(ctx context.Context, runID uuid.UUID) (*dto.RunRead, error) {
	var run *dto.RunRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPayrollRepo(uow)
		if err != nil {
			return err
		}
		run, err = repo.GetRun(ctx, runID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func itemUpdateFor(result *providerpay.WebhookResult) dto.RunItemUpdate {
	update := dto.RunItemUpdate{}
	switch result.Kind {
	case providerpay.WebhookPayoutSent:
		completed := string(payroll.ItemCompleted)
		update.Status = &completed
	case providerpay.WebhookPayoutFailed:
		failed := string(payroll.ItemFailed)
		update.Status = &failed
		if result.Reason != "" {
			reason := result.Reason
			update.FailureReason = &reason
		}
	}
	if result.ProviderRef != "" {
		update.ProviderRef = &result.ProviderRef
	}
	return update
}

// payoutProvider picks the provider a creator's payouts flow through.
func payoutProvider(
	c *dto.CreatorRead,
	country region.Country,
) (region.Provider, error) {
	stripe := country.Supports(region.ProviderStripe)
	paystack := country.Supports(region.ProviderPaystack)
	switch {
	case stripe && paystack:
		if c.StripeAccountID != "" && c.PaystackSubCode == "" {
			return region.ProviderStripe, nil
		}
		return region.ProviderPaystack, nil
	case stripe:
		return region.ProviderStripe, nil
	case paystack:
		return region.ProviderPaystack, nil
	default:
		return "", payment.ErrNoProviderForCountry
	}
}

// payoutAmount converts a canonical USD salary into what the provider
// transfers. Paystack settles locally, so the amount is converted at the
// approximate rate without display rounding.
func payoutAmount(
	amountUSDCents int64,
	prov region.Provider,
	countryCode string,
) (int64, money.Code, error) {
	if prov == region.ProviderStripe {
		return amountUSDCents, money.USD, nil
	}
	rate := region.ApproxFxRate(countryCode)
	if rate == nil {
		return 0, "", fmt.Errorf("no payout rate for country %q", countryCode)
	}
	country, _ := region.Get(countryCode)
	subunits := int64(math.Round(float64(amountUSDCents) * *rate))
	return subunits, country.Currency, nil
}

func getPayrollRepo(uow repository.UnitOfWork) (payrollrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*payrollrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(payrollrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}
