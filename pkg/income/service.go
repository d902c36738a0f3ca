package income

import (
	"context"
	"fmt"

	"github.com/centava/centava/internal/event_bus"
	"github.com/centava/centava/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Source, error)
	Get(ctx context.Context, id int) (Source, error)
	Create(ctx context.Context, source Source) (Source, error)
	Update(ctx context.Context, source Source) (Source, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, includeInactive)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, source Source) (Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if source.NetAmount.GreaterThan(source.GrossAmount) {
		return Source{}, fmt.Errorf("net amount must not exceed gross amount")
	}

	id, err := s.repo.Store(ctx, userId, source)
	if err != nil {
		return Source{}, err
	}
	source.Id = id

	s.notifyChanged(ctx, userId, source.Id)
	return source, nil
}

func (s *ServiceImpl) Update(ctx context.Context, source Source) (Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if source.NetAmount.GreaterThan(source.GrossAmount) {
		return Source{}, fmt.Errorf("net amount must not exceed gross amount")
	}

	updated, err := s.repo.Update(ctx, userId, source)
	if err != nil {
		return Source{}, err
	}
	if !updated {
		log.Warnf("income source not updated, probably because it does not exist (%d) or the user (%d) is not the owner", source.Id, userId)
		return Source{}, ErrSourceNotFound
	}

	s.notifyChanged(ctx, userId, source.Id)
	return source, nil
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

func (s *ServiceImpl) notifyChanged(ctx context.Context, userId int, sourceId int) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.IncomeSourceUpdated, event_bus.IncomeSourceChanged{
		UserId:   userId,
		SourceId: sourceId,
	}))
	if err != nil {
		log.Errorf("failed to publish income source change event: %v", err)
	}
}
