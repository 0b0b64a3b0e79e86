package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro en memoria, solo agrega.
type MovementRepo struct {
	s *Store
}

func (r *MovementRepo) Append(_ context.Context, movement *entity.Movement) error {
	m := *movement
	r.s.mu.Lock()
	r.s.movements = append(r.s.movements, &m)
	r.s.mu.Unlock()
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) Query(_ context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	out := make([]*entity.Movement, 0)
	for _, m := range r.s.movements {
		if !matches(m, filter) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matches(m *entity.Movement, f entity.MovementFilter) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.From != nil && m.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.Timestamp.Before(*f.To) {
		return false
	}
	return true
}
