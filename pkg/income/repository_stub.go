package income

import (
	"context"
)

type RepositoryStub struct {
	nextId int
	data   map[int]Source
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{data: map[int]Source{}}
}

func (s *RepositoryStub) Store(ctx context.Context, userId int, source Source) (int, error) {
	s.nextId++
	source.Id = s.nextId
	s.data[source.Id] = source
	return source.Id, nil
}

func (s *RepositoryStub) Get(ctx context.Context, userId int, id int) (Source, error) {
	source, ok := s.data[id]
	if !ok {
		return Source{}, ErrSourceNotFound
	}
	return source, nil
}

func (s *RepositoryStub) GetAll(ctx context.Context, userId int, includeInactive bool) ([]Source, error) {
	sources := make([]Source, 0, len(s.data))
	for id := 1; id <= s.nextId; id++ {
		source, ok := s.data[id]
		if !ok {
			continue
		}
		if !includeInactive && !source.IsActive {
			continue
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (s *RepositoryStub) Update(ctx context.Context, userId int, source Source) (bool, error) {
	if _, ok := s.data[source.Id]; !ok {
		return false, nil
	}
	s.data[source.Id] = source
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
	s.data = map[int]Source{}
	s.nextId = 0
}
