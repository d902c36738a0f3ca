package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/centava/centava/pkg/budget_item"
	"github.com/centava/centava/pkg/income"
	"github.com/centava/centava/pkg/user"
)

var ErrNoIncomeSource = errors.New("no active income source")

// Preview is a full allocation pass over the user's current active items and
// first active income source.
type Preview struct {
	Source  income.Source
	Ordered []budget_item.BudgetItem
	Results []Result
	Summary Summary
}

type Service interface {
	Preview(ctx context.Context) (Preview, error)
}

type ServiceImpl struct {
	itemRepo   budget_item.Repository
	incomeRepo income.Repository
}

func NewService(itemRepo budget_item.Repository, incomeRepo income.Repository) *ServiceImpl {
	return &ServiceImpl{itemRepo: itemRepo, incomeRepo: incomeRepo}
}

func (s *ServiceImpl) Preview(ctx context.Context) (Preview, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to get current user: %w", err)
	}

	items, err := s.itemRepo.GetAll(ctx, userId, false)
	if err != nil {
		return Preview{}, err
	}
	sources, err := s.incomeRepo.GetAll(ctx, userId, false)
	if err != nil {
		return Preview{}, err
	}
	if len(sources) == 0 {
		return Preview{}, ErrNoIncomeSource
	}
	// The calculator contract is single-source: always the first active one.
	source := sources[0]

	ordered := ResolveOrder(items)
	results := CalculateAll(ordered, source)

	return Preview{
		Source:  source,
		Ordered: ordered,
		Results: results,
		Summary: Summarize(results, source),
	}, nil
}
