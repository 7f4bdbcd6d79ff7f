package memory

import (
	"context"
	"sort"

	"apnifarm-api/internal/domain/milk"
)

type MilkRepository struct {
	store *Store
}

func (r *MilkRepository) Create(ctx context.Context, e milk.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.milkEntries[e.ID] = e
	return nil
}

func (r *MilkRepository) GetByID(ctx context.Context, id string) (milk.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.milkEntries[id]
	if !ok {
		return milk.Entry{}, milk.ErrNotFound
	}
	return e, nil
}

func (r *MilkRepository) Update(ctx context.Context, e milk.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.milkEntries[e.ID]; !ok {
		return milk.ErrNotFound
	}
	r.store.milkEntries[e.ID] = e
	return nil
}

func (r *MilkRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.milkEntries[id]; !ok {
		return milk.ErrNotFound
	}
	delete(r.store.milkEntries, id)
	return nil
}

func (r *MilkRepository) List(ctx context.Context, farmID string, f milk.ListFilter) ([]milk.EntryWithAnimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]milk.EntryWithAnimal, 0)
	for _, e := range r.store.milkEntries {
		a, ok := r.store.animals[e.AnimalID]
		if !ok || a.FarmID != farmID {
			continue
		}
		if f.AnimalID != "" && e.AnimalID != f.AnimalID {
			continue
		}
		if f.Session != "" && e.Session != f.Session {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		out = append(out, milk.EntryWithAnimal{
			Entry:         e,
			AnimalTagID:   a.TagID,
			AnimalSpecies: string(a.Species),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (r *MilkRepository) ListForStats(ctx context.Context, farmID string, f milk.StatsFilter) ([]milk.StatsRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]milk.StatsRow, 0)
	for _, e := range r.store.milkEntries {
		a, ok := r.store.animals[e.AnimalID]
		if !ok || a.FarmID != farmID {
			continue
		}
		if f.Species != "" && string(a.Species) != f.Species {
			continue
		}
		if f.Breed != "" && a.Breed != f.Breed {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		out = append(out, milk.StatsRow{
			AnimalID: e.AnimalID,
			TagID:    a.TagID,
			Species:  string(a.Species),
			Breed:    a.Breed,
			Liters:   e.Liters,
			Date:     e.Date,
		})
	}
	return out, nil
}
