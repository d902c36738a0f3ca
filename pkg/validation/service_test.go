package validation

import (
	"context"
	"testing"

	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/internal/test_utils"
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupService(t *testing.T) (*ServiceImpl, budget_item.Service, context.Context, *budget_item.RepositoryStub, *income.RepositoryStub, func()) {
	itemRepo := budget_item.NewStubRepository()
	incomeRepo := income.NewStubRepository()
	bus := event_bus.NewEventBus()
	itemService := budget_item.NewService(itemRepo, bus)
	service := NewService(itemRepo, incomeRepo, itemService, bus)
	ctx := test_utils.ContextWithTestUser(1)
	return service, itemService, ctx, itemRepo, incomeRepo, func() {
		t.Log("Teardown after test")
		itemRepo.Cleanup()
		incomeRepo.Cleanup()
	}
}

func storeSalary(t *testing.T, ctx context.Context, incomeRepo *income.RepositoryStub) {
	t.Helper()
	_, err := incomeRepo.Store(ctx, 1, salary)
	assert.NoError(t, err)
}

func TestServiceImpl_Validate_CachesUntilDataChanges(t *testing.T) {
	service, itemService, ctx, itemRepo, incomeRepo, teardown := setupService(t)
	defer teardown()

	// given
	storeSalary(t, ctx, incomeRepo)
	id, err := itemRepo.Store(ctx, 1, item(0, "Rent", budget_item.CalcFixed, 500, 1))
	assert.NoError(t, err)

	first, err := service.Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, first.IsValid)

	// when: the repository changes behind the service's back
	broken := item(id, "Rent", budget_item.CalcFixed, 0, 1)
	_, err = itemRepo.Update(ctx, 1, broken)
	assert.NoError(t, err)

	// then: the cached result is still served
	cached, err := service.Validate(ctx)
	assert.NoError(t, err)
	assert.True(t, cached.IsValid)

	// when: the same change goes through the item service, which publishes
	_, err = itemService.Update(ctx, broken)
	assert.NoError(t, err)

	// then: the cache was dropped and the error shows up
	fresh, err := service.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, fresh.IsValid)
	_, found := findIssue(fresh, KindInvalidValue)
	assert.True(t, found)
}

func TestServiceImpl_Resolutions(t *testing.T) {
	service, _, ctx, itemRepo, incomeRepo, teardown := setupService(t)
	defer teardown()

	// given
	storeSalary(t, ctx, incomeRepo)
	_, err := itemRepo.Store(ctx, 1, item(0, "Savings", budget_item.CalcNetPercent, 150, 1))
	assert.NoError(t, err)

	// when
	resolutions, err := service.Resolutions(ctx)

	// then
	assert.NoError(t, err)
	assert.Len(t, resolutions, 1)
	assert.Equal(t, ResolutionAdjustValues, resolutions[0].Type)
}

func TestServiceImpl_ApplyResolutions_PersistsTheFix(t *testing.T) {
	service, _, ctx, itemRepo, incomeRepo, teardown := setupService(t)
	defer teardown()

	// given
	storeSalary(t, ctx, incomeRepo)
	id, err := itemRepo.Store(ctx, 1, item(0, "Savings", budget_item.CalcNetPercent, 150, 1))
	assert.NoError(t, err)

	resolutions, err := service.Resolutions(ctx)
	assert.NoError(t, err)
	assert.Len(t, resolutions, 1)

	// when
	result, err := service.ApplyResolutions(ctx, []string{resolutions[0].IssueId})

	// then: the stored item was clamped and the issue is gone
	assert.NoError(t, err)
	_, found := findIssue(result, KindPercentageTooHigh)
	assert.False(t, found)

	stored, err := itemRepo.Get(ctx, 1, id)
	assert.NoError(t, err)
	assert.True(t, stored.Value.Equal(decimal.NewFromInt(100)))
}

func TestServiceImpl_ApplyResolutions_UnknownIssueId(t *testing.T) {
	service, _, ctx, _, incomeRepo, teardown := setupService(t)
	defer teardown()

	// given
	storeSalary(t, ctx, incomeRepo)

	// when
	_, err := service.ApplyResolutions(ctx, []string{"does-not-exist"})

	// then
	assert.Error(t, err)
}
