package budget_item

import (
	"context"
)

type RepositoryStub struct {
	nextId int
	data   map[int]BudgetItem
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{data: map[int]BudgetItem{}}
}

func (s *RepositoryStub) Store(ctx context.Context, userId int, item BudgetItem) (int, error) {
	s.nextId++
	item.Id = s.nextId
	s.data[item.Id] = item
	return item.Id, nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int, id int) (BudgetItem, error) {
	item, ok := s.data[id]
	if !ok {
		return BudgetItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context, userId int, includeInactive bool) ([]BudgetItem, error) {
	items := make([]BudgetItem, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		item, ok := s.data[id]
		if !ok {
			continue
		}
		if !includeInactive && !item.IsActive {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, item BudgetItem) (bool, error) {
	if _, ok := s.data[item.Id]; !ok {
		return false, nil
	}
	s.data[item.Id] = item
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]BudgetItem{}
	s.nextId = 0
}
