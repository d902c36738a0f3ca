package budget_item

import (
	"context"
	"fmt"

	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context, includeInactive bool) ([]BudgetItem, error)
	Get(ctx context.Context, id int) (BudgetItem, error)
	Create(ctx context.Context, item BudgetItem) (BudgetItem, error)
	Update(ctx context.Context, item BudgetItem) (BudgetItem, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, includeInactive)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get current user: %w", err)
	}

	id, err := s.repo.Store(ctx, userId, item)
	if err != nil {
		return BudgetItem{}, err
	}
	item.Id = id

	s.notifyChanged(ctx, userId, item.Id)
	return item, nil
}

func (s *ServiceImpl) Update(ctx context.Context, item BudgetItem) (BudgetItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("failed to get current user: %w", err)
	}

	updated, err := s.repo.Update(ctx, userId, item)
	if err != nil {
		return BudgetItem{}, err
	}
	if !updated {
		log.Warnf("budget item not updated, probably because it does not exist (%d) or the user (%d) is not the owner", item.Id, userId)
		return BudgetItem{}, ErrItemNotFound
	}

	s.notifyChanged(ctx, userId, item.Id)
	return item, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.notifyChanged(ctx, userId, id)
	}
	return deleted, nil
}

func (s *ServiceImpl) notifyChanged(ctx context.Context, userId int, itemId int) {
	// Subscribers only drop caches here; a failed notification must not fail
	// the mutation that already committed.
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetItemUpdated, event_bus.BudgetItemChanged{
		UserId: userId,
		ItemId: itemId,
	}))
	if err != nil {
		log.Errorf("failed to publish budget item change event: %v", err)
	}
}
