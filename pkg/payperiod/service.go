package payperiod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centava/centava/internal/utils"
	"github.com/centava/centava/pkg/allocation"
	"github.com/centava/centava/pkg/cadence"
	"github.com/centava/centava/pkg/user"
	"github.com/shopspring/decimal"
)

var (
	ErrPeriodCompleted    = errors.New("pay period is already completed")
	ErrAllocationNotFound = errors.New("pay period allocation not found")
)

type Service interface {
	// Create opens a new pay period starting at startDate (the current day
	// when zero) and snapshots the expected allocations for it. The period
	// length follows the income source's cadence.
	Create(ctx context.Context, startDate time.Time) (PayPeriod, []Allocation, error)
	Get(ctx context.Context, id int) (PayPeriod, []Allocation, error)
	GetAll(ctx context.Context) ([]PayPeriod, error)
	RecordActualNet(ctx context.Context, periodId int, amount decimal.Decimal) (PayPeriod, error)
	RecordAllocationActual(ctx context.Context, periodId int, allocationId int, amount decimal.Decimal) (Allocation, error)
	Complete(ctx context.Context, periodId int) (PayPeriod, error)
	Reconciliation(ctx context.Context, periodId int) (ReconciliationReport, error)
}

type ServiceImpl struct {
	repo         Repository
	allocService allocation.Service
	clock        utils.Clock
}

func NewService(repo Repository, allocService allocation.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, allocService: allocService, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, startDate time.Time) (PayPeriod, []Allocation, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return PayPeriod{}, nil, fmt.Errorf("failed to get current user: %w", err)
	}

	preview, err := s.allocService.Preview(ctx)
	if err != nil {
		return PayPeriod{}, nil, err
	}

	if startDate.IsZero() {
		now := s.clock.Now().UTC()
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	period := PayPeriod{
		StartDate:   startDate,
		EndDate:     periodEnd(startDate, preview.Source.Cadence),
		ExpectedNet: preview.Source.NetAmount,
		Status:      StatusOpen,
	}

	namesById := make(map[int]string, len(preview.Ordered))
	for _, item := range preview.Ordered {
		namesById[item.Id] = item.Name
	}
	allocations := make([]Allocation, 0, len(preview.Results))
	for _, result := range preview.Results {
		allocations = append(allocations, Allocation{
			BudgetItemId:   result.BudgetItemId,
			BudgetItemName: namesById[result.BudgetItemId],
			ExpectedAmount: result.ExpectedAmount,
			Status:         AllocationUnpaid,
		})
	}

	period, err = s.repo.Store(ctx, userId, period, allocations)
	if err != nil {
		return PayPeriod{}, nil, err
	}

	stored, err := s.repo.GetAllocations(ctx, userId, period.Id)
	if err != nil {
		return PayPeriod{}, nil, err
	}
	return period, stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (PayPeriod, []Allocation, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return PayPeriod{}, nil, fmt.Errorf("failed to get current user: %w", err)
	}

	period, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return PayPeriod{}, nil, err
	}
	allocations, err := s.repo.GetAllocations(ctx, userId, id)
	if err != nil {
		return PayPeriod{}, nil, err
	}
	return period, allocations, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]PayPeriod, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) RecordActualNet(ctx context.Context, periodId int, amount decimal.Decimal) (PayPeriod, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return PayPeriod{}, fmt.Errorf("failed to get current user: %w", err)
	}

	period, err := s.repo.Get(ctx, userId, periodId)
	if err != nil {
		return PayPeriod{}, err
	}
	if period.Status == StatusCompleted {
		return PayPeriod{}, ErrPeriodCompleted
	}

	period.ActualNet = &amount
	updated, err := s.repo.Update(ctx, userId, period)
	if err != nil {
		return PayPeriod{}, err
	}
	if !updated {
		return PayPeriod{}, ErrPeriodNotFound
	}
	return period, nil
}

func (s *ServiceImpl) RecordAllocationActual(ctx context.Context, periodId int, allocationId int, amount decimal.Decimal) (Allocation, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Allocation{}, fmt.Errorf("failed to get current user: %w", err)
	}

	period, err := s.repo.Get(ctx, userId, periodId)
	if err != nil {
		return Allocation{}, err
	}
	if period.Status == StatusCompleted {
		return Allocation{}, ErrPeriodCompleted
	}

	allocations, err := s.repo.GetAllocations(ctx, userId, periodId)
	if err != nil {
		return Allocation{}, err
	}
	for _, allocation := range allocations {
		if allocation.Id != allocationId {
			continue
		}
		allocation.ActualAmount = &amount
		allocation.Status = AllocationPaid
		updated, err := s.repo.UpdateAllocation(ctx, userId, allocation)
		if err != nil {
			return Allocation{}, err
		}
		if !updated {
			return Allocation{}, ErrAllocationNotFound
		}
		return allocation, nil
	}
	return Allocation{}, ErrAllocationNotFound
}

func (s *ServiceImpl) Complete(ctx context.Context, periodId int) (PayPeriod, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return PayPeriod{}, fmt.Errorf("failed to get current user: %w", err)
	}

	period, err := s.repo.Get(ctx, userId, periodId)
	if err != nil {
		return PayPeriod{}, err
	}
	if period.Status == StatusCompleted {
		return PayPeriod{}, ErrPeriodCompleted
	}

	period.Status = StatusCompleted
	updated, err := s.repo.Update(ctx, userId, period)
	if err != nil {
		return PayPeriod{}, err
	}
	if !updated {
		return PayPeriod{}, ErrPeriodNotFound
	}
	return period, nil
}

func (s *ServiceImpl) Reconciliation(ctx context.Context, periodId int) (ReconciliationReport, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ReconciliationReport{}, fmt.Errorf("failed to get current user: %w", err)
	}

	period, err := s.repo.Get(ctx, userId, periodId)
	if err != nil {
		return ReconciliationReport{}, err
	}
	allocations, err := s.repo.GetAllocations(ctx, userId, periodId)
	if err != nil {
		return ReconciliationReport{}, err
	}
	return Reconcile(period, allocations), nil
}

// periodEnd returns the inclusive last day of a period starting at start.
func periodEnd(start time.Time, payCadence cadence.Cadence) time.Time {
	switch payCadence {
	case cadence.Weekly:
		return start.AddDate(0, 0, 6)
	case cadence.Biweekly:
		return start.AddDate(0, 0, 13)
	case cadence.Semimonthly:
		// Halves split at the 15th: a period starting in the first half runs
		// to the 15th, one starting later runs to month end.
		if start.Day() <= 15 {
			return time.Date(start.Year(), start.Month(), 15, 0, 0, 0, 0, start.Location())
		}
		firstOfNext := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	case cadence.Monthly:
		return start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	default:
		return start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	}
}
