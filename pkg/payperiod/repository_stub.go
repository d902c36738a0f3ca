package payperiod

import (
	"context"
)

type RepositoryStub struct {
	nextPeriodId     int
	nextAllocationId int
	periods          map[int]PayPeriod
	allocations      map[int][]Allocation
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{
		periods:     map[int]PayPeriod{},
		allocations: map[int][]Allocation{},
	}
}

func (s *RepositoryStub) Store(ctx context.Context, userId int, period PayPeriod, allocations []Allocation) (PayPeriod, error) {
	s.nextPeriodId++
	period.Id = s.nextPeriodId
	s.periods[period.Id] = period

	stored := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		s.nextAllocationId++
		allocation.Id = s.nextAllocationId
		allocation.PayPeriodId = period.Id
		stored = append(stored, allocation)
	}
	s.allocations[period.Id] = stored
	return period, nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int, id int) (PayPeriod, error) {
	period, ok := s.periods[id]
	if !ok {
		return PayPeriod{}, ErrPeriodNotFound
	}
	return period, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context, userId int) ([]PayPeriod, error) {
	periods := make([]PayPeriod, 0, len(s.periods))
	for id := s.nextPeriodId; id >= 1; id-- {
		if period, ok := s.periods[id]; ok {
			periods = append(periods, period)
		}
	}
	return periods, nil
}

func (s *RepositoryStub) GetAllocations(ctx context.Context, userId int, periodId int) ([]Allocation, error) {
	return append([]Allocation(nil), s.allocations[periodId]...), nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, period PayPeriod) (bool, error) {
	if _, ok := s.periods[period.Id]; !ok {
		return false, nil
	}
	s.periods[period.Id] = period
	return true, nil
}

func (s *RepositoryStub) UpdateAllocation(ctx context.Context, userId int, allocation Allocation) (bool, error) {
	allocations := s.allocations[allocation.PayPeriodId]
	for i := range allocations {
		if allocations[i].Id == allocation.Id {
			allocations[i] = allocation
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.periods = map[int]PayPeriod{}
	s.allocations = map[int][]Allocation{}
	s.nextPeriodId = 0
	s.nextAllocationId = 0
}
