package memory

import (
	"context"
	"sort"

	"apnifarm-api/internal/domain/plans"
)

type PlanRepository struct {
	store *Store
}

func (r *PlanRepository) List(ctx context.Context) ([]plans.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]plans.Plan, 0, len(r.store.plans))
	for _, p := range r.store.plans {
		out = append(out, p)
	}
	// Orden estable por precio (Free, Basic, Pro).
	sort.Slice(out, func(i, j int) bool { return out[i].PricePKR < out[j].PricePKR })
	return out, nil
}

func (r *PlanRepository) GetByName(ctx context.Context, name string) (plans.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.plans {
		if plans.Normalize(p.Name) == plans.Normalize(name) {
			return p, nil
		}
	}
	return plans.Plan{}, plans.ErrNotFound
}

func (r *PlanRepository) Seed(ctx context.Context, items []plans.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if len(r.store.plans) > 0 {
		return nil
	}
	for _, p := range items {
		r.store.plans[p.ID] = p
	}
	return nil
}
