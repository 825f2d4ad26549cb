package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/dispatchor/model"
	"github.com/viant/dispatchor/service/dao"
	"github.com/viant/dispatchor/service/dao/criteria"
)

// Service implements an in-memory, thread-safe store for requests. Saved
// and loaded requests are copies, so callers never share state with the store.
type Service struct {
	requests map[int]*model.Request
	mux      sync.RWMutex
}

var _ dao.Service[int, model.Request] = (*Service)(nil)

func (s *Service) Save(_ context.Context, request *model.Request) error {
	if request == nil {
		return dao.ErrNilEntity
	}
	if request.ID < 0 {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests[request.ID] = request.Clone()
	return nil
}

func (s *Service) Load(_ context.Context, id int) (*model.Request, error) {
	if id < 0 {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	request, ok := s.requests[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return request.Clone(), nil
}

func (s *Service) Delete(_ context.Context, id int) error {
	if id < 0 {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.requests[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

// List returns requests ordered by ID
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	s.mux.RLock()
	out := make([]*model.Request, 0, len(s.requests))
	for _, request := range s.requests {
		if !criteria.FilterByState(string(request.State), parameters) {
			continue
		}
		out = append(out, request.Clone())
	}
	s.mux.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func New() *Service {
	return &Service{requests: map[int]*model.Request{}}
}
