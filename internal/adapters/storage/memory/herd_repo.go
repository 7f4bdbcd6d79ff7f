package memory

import (
	"context"
	"sort"
	"strings"

	"apnifarm-api/internal/domain/herd"
)

type HerdRepository struct {
	store *Store
}

func (r *HerdRepository) Create(ctx context.Context, a herd.Animal, initialLog *herd.WeightLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Mismos constraints que las uniques de postgres.
	for _, existing := range r.store.animals {
		if existing.SRAID == a.SRAID {
			return herd.ErrSRAConflict
		}
		if existing.FarmID == a.FarmID && existing.TagID == a.TagID {
			return herd.ErrDuplicateTag
		}
	}

	r.store.animals[a.ID] = a
	if initialLog != nil {
		r.store.weightLogs[initialLog.ID] = *initialLog
	}
	return nil
}

func (r *HerdRepository) GetByID(ctx context.Context, id string) (herd.Animal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.animals[id]
	if !ok {
		return herd.Animal{}, herd.ErrNotFound
	}
	return a, nil
}

func (r *HerdRepository) GetByTag(ctx context.Context, farmID, tagID string) (herd.Animal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.animals {
		if a.FarmID == farmID && a.TagID == tagID {
			return a, nil
		}
	}
	return herd.Animal{}, herd.ErrNotFound
}

func (r *HerdRepository) GetBySRA(ctx context.Context, sraID string) (herd.Animal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.animals {
		if a.SRAID == sraID {
			return a, nil
		}
	}
	return herd.Animal{}, herd.ErrNotFound
}

func (r *HerdRepository) SRAExists(ctx context.Context, sraID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.animals {
		if a.SRAID == sraID {
			return true, nil
		}
	}
	return false, nil
}

func (r *HerdRepository) ListByFarm(ctx context.Context, farmID string) ([]herd.Animal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]herd.Animal, 0)
	for _, a := range r.store.animals {
		if a.FarmID == farmID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TagID < out[j].TagID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *HerdRepository) Update(ctx context.Context, a herd.Animal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.animals[a.ID]; !ok {
		return herd.ErrNotFound
	}
	for _, existing := range r.store.animals {
		if existing.ID != a.ID && existing.FarmID == a.FarmID && existing.TagID == a.TagID {
			return herd.ErrDuplicateTag
		}
	}
	r.store.animals[a.ID] = a
	return nil
}

func (r *HerdRepository) DeleteCascade(ctx context.Context, id string, damLabel string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.animals[id]; !ok {
		return herd.ErrNotFound
	}

	// Crías: dam_id a null, label placeholder para no perder el vínculo visual.
	for cid, c := range r.store.animals {
		if c.DamID != nil && *c.DamID == id {
			c.DamID = nil
			c.DamLabel = damLabel
			r.store.animals[cid] = c
		}
	}

	for lid, l := range r.store.weightLogs {
		if l.AnimalID == id {
			delete(r.store.weightLogs, lid)
		}
	}
	for eid, e := range r.store.milkEntries {
		if e.AnimalID == id {
			delete(r.store.milkEntries, eid)
		}
	}

	delete(r.store.animals, id)
	return nil
}

func (r *HerdRepository) Tags(ctx context.Context, farmID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]string, 0)
	for _, a := range r.store.animals {
		if a.FarmID == farmID {
			out = append(out, a.TagID)
		}
	}
	return out, nil
}

func (r *HerdRepository) Search(ctx context.Context, farmID string, f herd.SearchFilter) ([]herd.Animal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]herd.Animal, 0)
	for _, a := range r.store.animals {
		if a.FarmID != farmID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.TagID), q) {
			continue
		}
		if f.Gender != "" && a.Gender != f.Gender {
			continue
		}
		if f.Species != "" && a.Species != f.Species {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TagID < out[j].TagID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *HerdRepository) ListWeightLogs(ctx context.Context, animalID string) ([]herd.WeightLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]herd.WeightLog, 0)
	for _, l := range r.store.weightLogs {
		if l.AnimalID == animalID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
