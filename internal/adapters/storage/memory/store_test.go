package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"apnifarm-api/internal/domain/herd"
	"apnifarm-api/internal/domain/milk"
)

func seedAnimal(t *testing.T, store *Store, id, farmID, tagID, sraID string, damID *string) {
	t.Helper()
	err := store.Herd().Create(context.Background(), herd.Animal{
		ID: id, FarmID: farmID, TagID: tagID, SRAID: sraID,
		Species: herd.SpeciesCow, Gender: herd.GenderFemale,
		Origin: herd.OriginHomeBred, Status: herd.StatusMilking,
		DamID:     damID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("seed animal %s: %v", id, err)
	}
}

func TestHerdRepo_UniqueConstraints(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seedAnimal(t, store, "a1", "farm-1", "12", "PK-COW-2025-AAAA", nil)

	// SRA duplicado (cualquier granja)
	err := store.Herd().Create(ctx, herd.Animal{
		ID: "a2", FarmID: "farm-2", TagID: "1", SRAID: "PK-COW-2025-AAAA",
	}, nil)
	if !errors.Is(err, herd.ErrSRAConflict) {
		t.Fatalf("expected ErrSRAConflict, got %v", err)
	}

	// Tag duplicado dentro de la granja
	err = store.Herd().Create(ctx, herd.Animal{
		ID: "a3", FarmID: "farm-1", TagID: "12", SRAID: "PK-COW-2025-BBBB",
	}, nil)
	if !errors.Is(err, herd.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}

	// Mismo tag en otra granja pasa
	err = store.Herd().Create(ctx, herd.Animal{
		ID: "a4", FarmID: "farm-2", TagID: "12", SRAID: "PK-COW-2025-CCCC",
	}, nil)
	if err != nil {
		t.Fatalf("same tag other farm: %v", err)
	}
}

func TestDeleteCascade_RemovesDependentsAndClearsDamRefs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seedAnimal(t, store, "dam", "farm-1", "12", "sra-dam", nil)
	damID := "dam"
	seedAnimal(t, store, "calf", "farm-1", "13", "sra-calf", &damID)

	// Weight log y milk entry del animal a borrar.
	if err := store.Herd().Create(ctx, herd.Animal{
		ID: "tmp", FarmID: "farm-1", TagID: "99", SRAID: "sra-tmp",
	}, &herd.WeightLog{ID: "wl-tmp", AnimalID: "tmp", WeightKg: 30, Date: time.Now()}); err != nil {
		t.Fatalf("seed tmp: %v", err)
	}
	store.weightLogs["wl-dam"] = herd.WeightLog{ID: "wl-dam", AnimalID: "dam", WeightKg: 400, Date: time.Now()}
	if err := store.Milk().Create(ctx, milk.Entry{ID: "me-dam", AnimalID: "dam", Liters: 8, Date: time.Now(), RecordedAt: time.Now()}); err != nil {
		t.Fatalf("seed milk: %v", err)
	}

	if err := store.Herd().DeleteCascade(ctx, "dam", "Deleted #12"); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	// El animal se fue
	if _, err := store.Herd().GetByID(ctx, "dam"); !errors.Is(err, herd.ErrNotFound) {
		t.Fatalf("dam should be gone")
	}

	// La cría sobrevive con la referencia limpia
	calf, err := store.Herd().GetByID(ctx, "calf")
	if err != nil {
		t.Fatalf("calf: %v", err)
	}
	if calf.DamID != nil || calf.DamLabel != "Deleted #12" {
		t.Fatalf("dam ref not cleared: %+v", calf)
	}

	// Sus dependientes también
	if _, ok := store.weightLogs["wl-dam"]; ok {
		t.Fatalf("weight log should be deleted")
	}
	if _, err := store.Milk().GetByID(ctx, "me-dam"); !errors.Is(err, milk.ErrNotFound) {
		t.Fatalf("milk entry should be deleted")
	}

	// Lo ajeno queda intacto
	if _, ok := store.weightLogs["wl-tmp"]; !ok {
		t.Fatalf("unrelated weight log lost")
	}
}

func TestMilkRepo_ListJoinsOwnFarmOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seedAnimal(t, store, "mine", "farm-1", "1", "sra-1", nil)
	seedAnimal(t, store, "theirs", "farm-2", "1", "sra-2", nil)

	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_ = store.Milk().Create(ctx, milk.Entry{ID: "e1", AnimalID: "mine", Liters: 5, Date: d, Session: milk.SessionMorning, RecordedAt: d})
	_ = store.Milk().Create(ctx, milk.Entry{ID: "e2", AnimalID: "theirs", Liters: 7, Date: d, RecordedAt: d})

	out, err := store.Milk().List(ctx, "farm-1", milk.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].ID != "e1" {
		t.Fatalf("expected only own entries, got %+v", out)
	}
	if out[0].AnimalTagID != "1" || out[0].AnimalSpecies != "Cow" {
		t.Fatalf("join fields missing: %+v", out[0])
	}
}

func TestMilkRepo_StatsFilterByAnimalAttributes(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seedAnimal(t, store, "c1", "farm-1", "1", "sra-1", nil)
	if err := store.Herd().Create(ctx, herd.Animal{
		ID: "b1", FarmID: "farm-1", TagID: "2", SRAID: "sra-2",
		Species: herd.SpeciesBuffalo, Status: herd.StatusMilking,
	}, nil); err != nil {
		t.Fatalf("seed buffalo: %v", err)
	}

	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_ = store.Milk().Create(ctx, milk.Entry{ID: "e1", AnimalID: "c1", Liters: 5, Date: d, RecordedAt: d})
	_ = store.Milk().Create(ctx, milk.Entry{ID: "e2", AnimalID: "b1", Liters: 9, Date: d, RecordedAt: d})

	rows, err := store.Milk().ListForStats(ctx, "farm-1", milk.StatsFilter{Species: "Buffalo"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(rows) != 1 || rows[0].AnimalID != "b1" || rows[0].Liters != 9 {
		t.Fatalf("species filter wrong: %+v", rows)
	}
}
