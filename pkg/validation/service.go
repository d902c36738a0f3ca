package validation

import (
	"context"
	"fmt"
	"sync"

	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	"github.com/centava/centava/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Validate(ctx context.Context) (Result, error)
	Resolutions(ctx context.Context) ([]Resolution, error)
	// ApplyResolutions applies the resolutions matching the given issue ids and
	// persists the affected budget items. It returns the fresh validation
	// result after the fixes.
	ApplyResolutions(ctx context.Context, issueIds []string) (Result, error)
}

type ServiceImpl struct {
	itemRepo    budget_item.Repository
	incomeRepo  income.Repository
	itemService budget_item.Service

	// Validation is pure over a snapshot, so results are memoized per user and
	// dropped whenever the bus reports a data change for that user.
	mu    sync.Mutex
	cache map[int]Result
}

func NewService(
	itemRepo budget_item.Repository,
	incomeRepo income.Repository,
	itemService budget_item.Service,
	eventBus *event_bus.EventBus,
) *ServiceImpl {
	s := &ServiceImpl{
		itemRepo:    itemRepo,
		incomeRepo:  incomeRepo,
		itemService: itemService,
		cache:       make(map[int]Result),
	}
	event_bus.SubscribeTyped[event_bus.BudgetItemChanged](eventBus, event_bus.BudgetItemUpdated,
		func(e event_bus.EventT[event_bus.BudgetItemChanged]) error {
			s.invalidate(e.Data.UserId)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.IncomeSourceChanged](eventBus, event_bus.IncomeSourceUpdated,
		func(e event_bus.EventT[event_bus.IncomeSourceChanged]) error {
			s.invalidate(e.Data.UserId)
			return nil
		})
	return s
}

func (s *ServiceImpl) invalidate(userId int) {
	s.mu.Lock()
	delete(s.cache, userId)
	s.mu.Unlock()
}

func (s *ServiceImpl) Validate(ctx context.Context) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}

	s.mu.Lock()
	cached, ok := s.cache[userId]
	s.mu.Unlock()
	if ok {
		log.Debugf("Serving cached validation result for user %d", userId)
		return cached, nil
	}

	items, sources, err := s.snapshot(ctx, userId)
	if err != nil {
		return Result{}, err
	}
	result := Validate(items, sources)

	s.mu.Lock()
	s.cache[userId] = result
	s.mu.Unlock()
	return result, nil
}

func (s *ServiceImpl) Resolutions(ctx context.Context) ([]Resolution, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	items, sources, err := s.snapshot(ctx, userId)
	if err != nil {
		return nil, err
	}
	return GenerateResolutions(Validate(items, sources), items), nil
}

func (s *ServiceImpl) ApplyResolutions(ctx context.Context, issueIds []string) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}

	items, sources, err := s.snapshot(ctx, userId)
	if err != nil {
		return Result{}, err
	}

	resolutions := GenerateResolutions(Validate(items, sources), items)
	byIssueId := make(map[string]Resolution, len(resolutions))
	for _, resolution := range resolutions {
		byIssueId[resolution.IssueId] = resolution
	}

	updated := items
	changedIds := make(map[int]bool)
	for _, issueId := range issueIds {
		resolution, ok := byIssueId[issueId]
		if !ok {
			return Result{}, fmt.Errorf("no applicable resolution for issue %q", issueId)
		}
		updated, err = ApplyResolution(updated, resolution)
		if err != nil {
			return Result{}, err
		}
		for _, change := range resolution.Changes {
			changedIds[change.ItemId] = true
		}
	}

	// Persist through the item service so change events fire and every cache
	// (including ours) drops the stale result.
	for _, item := range updated {
		if !changedIds[item.Id] {
			continue
		}
		if _, err := s.itemService.Update(ctx, item); err != nil {
			return Result{}, fmt.Errorf("failed to persist fix for budget item %d: %w", item.Id, err)
		}
	}

	return Validate(updated, sources), nil
}

func (s *ServiceImpl) snapshot(ctx context.Context, userId int) ([]budget_item.BudgetItem, []income.Source, error) {
	items, err := s.itemRepo.GetAll(ctx, userId, false)
	if err != nil {
		return nil, nil, err
	}
	sources, err := s.incomeRepo.GetAll(ctx, userId, false)
	if err != nil {
		return nil, nil, err
	}
	return items, sources, nil
}
