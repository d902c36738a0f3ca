package payperiod

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/centava/centava/internal/test_utils"
	"github.com/centava/centava/pkg/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	container, openDB := test_utils.TestWithDB()
	db = openDB()
	code := m.Run()
	db.Close()
	if err := testcontainers.TerminateContainer(container); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository, int) {
	ctx := context.Background()
	repository := NewRepository(db)

	userId, err := user.NewUserRepo(db).CreateUser(ctx, user.User{
		Uid:         uuid.NewString(),
		Username:    "user-" + uuid.NewString(),
		DisplayName: "Test User",
	})
	assert.NoError(t, err)
	return ctx, repository, userId
}

func testPeriod() PayPeriod {
	return PayPeriod{
		StartDate:   time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC),
		ExpectedNet: decimal.NewFromInt(800),
		Status:      StatusOpen,
	}
}

func TestRepositoryImpl_StoreWithAllocations(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	allocations := []Allocation{
		{BudgetItemId: 1, BudgetItemName: "Rent", ExpectedAmount: decimal.NewFromInt(500), Status: AllocationUnpaid},
		{BudgetItemId: 2, BudgetItemName: "Savings", ExpectedAmount: decimal.NewFromInt(150), Status: AllocationUnpaid},
	}

	// when
	period, err := repo.Store(ctx, userId, testPeriod(), allocations)
	assert.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, userId, period.Id)
	assert.NoError(t, err)
	assert.Equal(t, StatusOpen, stored.Status)
	assert.Nil(t, stored.ActualNet)
	assert.True(t, stored.ExpectedNet.Equal(decimal.NewFromInt(800)))

	storedAllocations, err := repo.GetAllocations(ctx, userId, period.Id)
	assert.NoError(t, err)
	assert.Len(t, storedAllocations, 2)
	assert.Equal(t, "Rent", storedAllocations[0].BudgetItemName)
	assert.Equal(t, AllocationUnpaid, storedAllocations[0].Status)
}

func TestRepositoryImpl_UpdatePeriodAndAllocation(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	period, err := repo.Store(ctx, userId, testPeriod(), []Allocation{
		{BudgetItemId: 1, BudgetItemName: "Rent", ExpectedAmount: decimal.NewFromInt(500), Status: AllocationUnpaid},
	})
	assert.NoError(t, err)

	// when
	actualNet := decimal.NewFromInt(820)
	period.ActualNet = &actualNet
	period.Status = StatusCompleted
	ok, err := repo.Update(ctx, userId, period)
	assert.NoError(t, err)
	assert.True(t, ok)

	allocations, err := repo.GetAllocations(ctx, userId, period.Id)
	assert.NoError(t, err)
	actualAmount := decimal.NewFromInt(510)
	allocations[0].ActualAmount = &actualAmount
	allocations[0].Status = AllocationPaid
	ok, err = repo.UpdateAllocation(ctx, userId, allocations[0])
	assert.NoError(t, err)
	assert.True(t, ok)

	// then
	stored, err := repo.Get(ctx, userId, period.Id)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.True(t, stored.ActualNet.Equal(actualNet))

	storedAllocations, err := repo.GetAllocations(ctx, userId, period.Id)
	assert.NoError(t, err)
	assert.Equal(t, AllocationPaid, storedAllocations[0].Status)
	assert.True(t, storedAllocations[0].ActualAmount.Equal(actualAmount))
}

func TestRepositoryImpl_UserScoping(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	_, _, otherUserId := setupTestRepository(t)
	period, err := repo.Store(ctx, userId, testPeriod(), nil)
	assert.NoError(t, err)

	// when / then
	_, err = repo.Get(ctx, otherUserId, period.Id)
	assert.ErrorIs(t, err, ErrPeriodNotFound)

	allocations, err := repo.GetAllocations(ctx, otherUserId, period.Id)
	assert.NoError(t, err)
	assert.Empty(t, allocations)
}

func TestRepositoryImpl_GetAll_NewestFirst(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	older := testPeriod()
	newer := testPeriod()
	newer.StartDate = newer.StartDate.AddDate(0, 0, 14)
	newer.EndDate = newer.EndDate.AddDate(0, 0, 14)
	_, err := repo.Store(ctx, userId, older, nil)
	assert.NoError(t, err)
	_, err = repo.Store(ctx, userId, newer, nil)
	assert.NoError(t, err)

	// when
	periods, err := repo.GetAll(ctx, userId)

	// then
	assert.NoError(t, err)
	assert.Len(t, periods, 2)
	assert.True(t, periods[0].StartDate.After(periods[1].StartDate))
}
