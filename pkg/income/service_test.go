package income

import (
	"context"
	"testing"

	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/internal/test_utils"
	"github.com/centava/centava/pkg/cadence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupService(t *testing.T) (*ServiceImpl, context.Context, *event_bus.EventBus, func()) {
	repo := NewStubRepository()
	bus := event_bus.NewEventBus()
	service := NewService(repo, bus)
	ctx := test_utils.ContextWithTestUser(1)
	return service, ctx, bus, func() {
		t.Log("Teardown after test")
		repo.Cleanup()
	}
}

func salary() Source {
	return Source{
		Name:        "Salary",
		GrossAmount: decimal.NewFromInt(1000),
		NetAmount:   decimal.NewFromInt(800),
		Cadence:     cadence.Biweekly,
		IsActive:    true,
	}
}

func TestServiceImpl_Create(t *testing.T) {
	service, ctx, bus, teardown := setupService(t)
	defer teardown()

	// given
	var published []event_bus.IncomeSourceChanged
	event_bus.SubscribeTyped[event_bus.IncomeSourceChanged](bus, event_bus.IncomeSourceUpdated,
		func(e event_bus.EventT[event_bus.IncomeSourceChanged]) error {
			published = append(published, e.Data)
			return nil
		})

	// when
	created, err := service.Create(ctx, salary())

	// then
	assert.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.Len(t, published, 1)
	assert.Equal(t, 1, published[0].UserId)
	assert.Equal(t, created.Id, published[0].SourceId)
}

func TestServiceImpl_Create_RejectsNetAboveGross(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// given
	source := salary()
	source.NetAmount = decimal.NewFromInt(1200)

	// when
	_, err := service.Create(ctx, source)

	// then
	assert.Error(t, err)
}

func TestServiceImpl_Update_UnknownSource(t *testing.T) {
	service, ctx, _, teardown := setupService(t)
	defer teardown()

	// given
	source := salary()
	source.Id = 42

	// when
	_, err := service.Update(ctx, source)

	// then
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestServiceImpl_RequiresUserInContext(t *testing.T) {
	service, _, _, teardown := setupService(t)
	defer teardown()

	// when
	_, err := service.Create(context.Background(), salary())

	// then
	assert.Error(t, err)
}
