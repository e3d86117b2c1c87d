package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_ledger/internal/core/ports/services"
	"github.com/SscSPs/treasury_ledger/internal/dto"
	"github.com/SscSPs/treasury_ledger/pkg/money"
)

var hundredPercent = decimal.NewFromInt(100)

// equityService closes profit sharing periods and allocates net profit to shareholders.
type equityService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	equityRepo   portsrepo.EquityRepositoryFacade
	partnerRepo  portsrepo.PartnerReader
	documentRepo portsrepo.DocumentReader
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	revenueRepo  portsrepo.RevenueRepositoryFacade
	ledgerRepo   portsrepo.LedgerReader
}

// NewEquityService creates a new EquityService.
func NewEquityService(repos portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.EquitySvcFacade {
	return &equityService{
		BaseService:  newBaseService(options...),
		txManager:    repos.TxManager,
		equityRepo:   repos.EquityRepo,
		partnerRepo:  repos.PartnerRepo,
		documentRepo: repos.DocumentRepo,
		expenseRepo:  repos.ExpenseRepo,
		revenueRepo:  repos.RevenueRepo,
		ledgerRepo:   repos.LedgerRepo,
	}
}

var _ portssvc.EquitySvcFacade = (*equityService)(nil)

func (s *equityService) OpenFirstPeriod(ctx context.Context, req dto.OpenPeriodRequest, userID string) (*domain.EquityPeriod, error) {
	startDate, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	if len(req.Partners) == 0 {
		return nil, fmt.Errorf("%w: at least one shareholder is required", apperrors.ErrValidation)
	}

	total := decimal.Zero
	seen := make(map[string]bool, len(req.Partners))
	partners := make([]domain.EquityPartner, len(req.Partners))
	for i, p := range req.Partners {
		if seen[p.PartnerID] {
			return nil, fmt.Errorf("%w: shareholder %s listed twice", apperrors.ErrValidation, p.PartnerID)
		}
		seen[p.PartnerID] = true
		if !p.EquityPercentage.IsPositive() || p.EquityPercentage.GreaterThan(hundredPercent) {
			return nil, fmt.Errorf("%w: equity percentage of %s must be in (0, 100]", apperrors.ErrValidation, p.PartnerID)
		}
		if p.CapitalAtStart.IsNegative() {
			return nil, fmt.Errorf("%w: starting capital of %s must not be negative", apperrors.ErrInvalidAmount, p.PartnerID)
		}
		total = total.Add(p.EquityPercentage)
		partners[i] = domain.EquityPartner{
			PartnerID:        p.PartnerID,
			EquityPercentage: p.EquityPercentage,
			CapitalAtStart:   p.CapitalAtStart,
		}
	}
	if !total.Equal(hundredPercent) {
		return nil, fmt.Errorf("%w: equity percentages add up to %s, expected 100", apperrors.ErrValidation, total)
	}

	period := domain.EquityPeriod{
		PeriodID:     uuid.NewString(),
		PeriodNumber: 1,
		StartDate:    domain.DateOnly(startDate),
		Status:       domain.PeriodOpen,
		Partners:     partners,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.equityRepo.FindOpenPeriod(ctx)
		if err == nil {
			return fmt.Errorf("%w: an equity period is already open", apperrors.ErrConflict)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		for _, p := range partners {
			partner, err := s.partnerRepo.FindPartnerByID(ctx, p.PartnerID)
			if err != nil {
				return err
			}
			if partner.Type != domain.PartnerShareholder {
				return fmt.Errorf("%w: partner %s is a %s, not a shareholder", apperrors.ErrValidation, partner.PartnerID, partner.Type)
			}
		}
		return s.equityRepo.SavePeriod(ctx, period)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to open equity period")
		return nil, err
	}

	s.LogInfo(ctx, "Equity period opened",
		slog.String("period_id", period.PeriodID),
		slog.String("start_date", period.StartDate.Format(dto.DateLayout)))
	return &period, nil
}

// periodTotals computes revenue and expenses posted from the period start through end.
func (s *equityService) periodTotals(ctx context.Context, period domain.EquityPeriod, end time.Time) (money.Money, money.Money, error) {
	from := period.StartDate
	sales, err := s.documentRepo.SumPostedTotals(ctx, domain.DocSalesInvoice, from, end)
	if err != nil {
		return money.Zero(), money.Zero(), err
	}
	returns, err := s.documentRepo.SumPostedTotals(ctx, domain.DocSalesReturn, from, end)
	if err != nil {
		return money.Zero(), money.Zero(), err
	}
	revenues, err := s.revenueRepo.SumPostedRevenues(ctx, from, end)
	if err != nil {
		return money.Zero(), money.Zero(), err
	}
	expenses, err := s.expenseRepo.SumPostedExpenses(ctx, from, end)
	if err != nil {
		return money.Zero(), money.Zero(), err
	}
	return money.Sum(sales, returns.Neg(), revenues), expenses, nil
}

func (s *equityService) ClosePeriod(ctx context.Context, periodID string, req dto.ClosePeriodRequest, userID string) (*domain.EquityPeriod, *domain.EquityPeriod, error) {
	endDate, err := dto.ParseOptionalDate(req.EndDate, s.Today())
	if err != nil {
		return nil, nil, err
	}

	var closed *domain.EquityPeriod
	var next domain.EquityPeriod
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		closed, err = s.equityRepo.FindPeriodByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if !closed.IsOpen() {
			return fmt.Errorf("%w: equity period %d is already closed", apperrors.ErrConflict, closed.PeriodNumber)
		}
		if endDate.Before(closed.StartDate) {
			return fmt.Errorf("%w: end date %s is before the period start %s",
				apperrors.ErrValidation, endDate.Format(dto.DateLayout), closed.StartDate.Format(dto.DateLayout))
		}

		revenue, expenses, err := s.periodTotals(ctx, *closed, endDate)
		if err != nil {
			return err
		}

		for i := range closed.Partners {
			injected, err := s.ledgerRepo.SumPartnerEntries(ctx, closed.Partners[i].PartnerID,
				domain.TxnCapitalDeposit, closed.StartDate, endDate)
			if err != nil {
				return err
			}
			closed.Partners[i].CapitalInjected = injected
		}

		now := s.Now()
		closed.Close(revenue, expenses, endDate, userID, req.Notes, now)
		if err := s.equityRepo.UpdateClosedPeriod(ctx, *closed); err != nil {
			return err
		}
		next = closed.Next(uuid.NewString(), userID, now)
		return s.equityRepo.SavePeriod(ctx, next)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to close equity period", slog.String("period_id", periodID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Equity period closed",
		slog.String("period_id", closed.PeriodID),
		slog.String("net_profit", closed.NetProfit.String()),
		slog.String("next_period_id", next.PeriodID))
	return closed, &next, nil
}

func (s *equityService) GetOpenPeriod(ctx context.Context) (*domain.EquityPeriod, error) {
	return s.equityRepo.FindOpenPeriod(ctx)
}

func (s *equityService) ListPeriods(ctx context.Context) ([]domain.EquityPeriod, error) {
	return s.equityRepo.ListPeriods(ctx)
}
