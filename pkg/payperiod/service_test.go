package payperiod

import (
	"context"
	"testing"
	"time"

	"github.com/centava/centava/internal/test_utils"
	"github.com/centava/centava/internal/utils"
	"github.com/centava/centava/pkg/allocation"
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/cadence"
	"github.com/centava/centava/pkg/income"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var clock = &utils.MockClock{FixedNow: time.Date(2025, time.March, 3, 10, 30, 0, 0, time.UTC)}

func setupService(t *testing.T) (*ServiceImpl, context.Context, *RepositoryStub, func()) {
	itemRepo := budget_item.NewStubRepository()
	incomeRepo := income.NewStubRepository()
	repo := NewStubRepository()
	service := NewService(repo, allocation.NewService(itemRepo, incomeRepo), clock)
	ctx := test_utils.ContextWithTestUser(1)

	_, err := incomeRepo.Store(ctx, 1, income.Source{
		Name:        "Salary",
		GrossAmount: decimal.NewFromInt(1000),
		NetAmount:   decimal.NewFromInt(800),
		Cadence:     cadence.Biweekly,
		IsActive:    true,
	})
	assert.NoError(t, err)
	rentId, err := itemRepo.Store(ctx, 1, budget_item.BudgetItem{
		Name:     "Rent",
		Category: budget_item.CategoryBills,
		CalcType: budget_item.CalcFixed,
		Value:    decimal.NewFromInt(500),
		Priority: 1,
		IsActive: true,
	})
	assert.NoError(t, err)
	_, err = itemRepo.Store(ctx, 1, budget_item.BudgetItem{
		Name:      "Leftovers",
		Category:  budget_item.CategoryDiscretionary,
		CalcType:  budget_item.CalcRemainingPercent,
		Value:     decimal.NewFromInt(50),
		Priority:  2,
		DependsOn: []int{rentId},
		IsActive:  true,
	})
	assert.NoError(t, err)

	return service, ctx, repo, func() {
		t.Log("Teardown after test")
		itemRepo.Cleanup()
		incomeRepo.Cleanup()
		repo.Cleanup()
	}
}

func TestServiceImpl_Create_SnapshotsExpectedAllocations(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// when: no start date given, the clock decides
	period, allocations, err := service.Create(ctx, time.Time{})

	// then
	assert.NoError(t, err)
	assert.Equal(t, StatusOpen, period.Status)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), period.StartDate)
	// biweekly: 14 days inclusive
	assert.Equal(t, time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), period.EndDate)
	assert.True(t, period.ExpectedNet.Equal(decimal.NewFromInt(800)))

	assert.Len(t, allocations, 2)
	assert.Equal(t, "Rent", allocations[0].BudgetItemName)
	assert.True(t, allocations[0].ExpectedAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, AllocationUnpaid, allocations[0].Status)
	assert.Equal(t, "Leftovers", allocations[1].BudgetItemName)
	assert.True(t, allocations[1].ExpectedAmount.Equal(decimal.NewFromInt(150)))
}

func TestPeriodEnd(t *testing.T) {
	tests := []struct {
		name     string
		cadence  cadence.Cadence
		start    time.Time
		expected time.Time
	}{
		{
			"weekly", cadence.Weekly,
			time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"monthly", cadence.Monthly,
			time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"semimonthly first half", cadence.Semimonthly,
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"semimonthly second half", cadence.Semimonthly,
			time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, periodEnd(tt.start, tt.cadence))
		})
	}
}

func TestServiceImpl_RecordActuals(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// given
	period, allocations, err := service.Create(ctx, time.Time{})
	assert.NoError(t, err)

	// when
	updated, err := service.RecordActualNet(ctx, period.Id, decimal.NewFromInt(820))
	assert.NoError(t, err)
	paid, err := service.RecordAllocationActual(ctx, period.Id, allocations[0].Id, decimal.NewFromInt(500))
	assert.NoError(t, err)

	// then
	assert.True(t, updated.ActualNet.Equal(decimal.NewFromInt(820)))
	assert.Equal(t, AllocationPaid, paid.Status)
	assert.True(t, paid.ActualAmount.Equal(decimal.NewFromInt(500)))
}

func TestServiceImpl_CompletedPeriodRejectsChanges(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// given
	period, allocations, err := service.Create(ctx, time.Time{})
	assert.NoError(t, err)
	_, err = service.Complete(ctx, period.Id)
	assert.NoError(t, err)

	// when / then
	_, err = service.RecordActualNet(ctx, period.Id, decimal.NewFromInt(800))
	assert.ErrorIs(t, err, ErrPeriodCompleted)
	_, err = service.RecordAllocationActual(ctx, period.Id, allocations[0].Id, decimal.NewFromInt(500))
	assert.ErrorIs(t, err, ErrPeriodCompleted)
	_, err = service.Complete(ctx, period.Id)
	assert.ErrorIs(t, err, ErrPeriodCompleted)
}

func TestServiceImpl_Reconciliation(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// given: everything paid exactly as planned
	period, allocations, err := service.Create(ctx, time.Time{})
	assert.NoError(t, err)
	_, err = service.RecordActualNet(ctx, period.Id, decimal.NewFromInt(800))
	assert.NoError(t, err)
	for _, allocation := range allocations {
		_, err = service.RecordAllocationActual(ctx, period.Id, allocation.Id, allocation.ExpectedAmount)
		assert.NoError(t, err)
	}

	// when
	report, err := service.Reconciliation(ctx, period.Id)

	// then: 650 of 800 assigned, the rest shows as unallocated
	assert.NoError(t, err)
	assert.Equal(t, ReconciliationPerfect, report.Status)
	assert.True(t, report.UnallocatedAmount.Equal(decimal.NewFromInt(150)))
}

func TestServiceImpl_Get_UnknownPeriod(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// when
	_, _, err := service.Get(ctx, 42)

	// then
	assert.ErrorIs(t, err, ErrPeriodNotFound)
}
