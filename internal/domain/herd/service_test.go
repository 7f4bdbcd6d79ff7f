package herd

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID         map[string]Animal
	logs         map[string]WeightLog
	lastDamLabel string
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID: map[string]Animal{},
		logs: map[string]WeightLog{},
	}
}

func (r *testRepo) Create(ctx context.Context, a Animal, initialLog *WeightLog) error {
	for _, existing := range r.byID {
		if existing.SRAID == a.SRAID {
			return ErrSRAConflict
		}
		if existing.FarmID == a.FarmID && existing.TagID == a.TagID {
			return ErrDuplicateTag
		}
	}
	r.byID[a.ID] = a
	if initialLog != nil {
		r.logs[initialLog.ID] = *initialLog
	}
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByTag(ctx context.Context, farmID, tagID string) (Animal, error) {
	for _, a := range r.byID {
		if a.FarmID == farmID && a.TagID == tagID {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) GetBySRA(ctx context.Context, sraID string) (Animal, error) {
	for _, a := range r.byID {
		if a.SRAID == sraID {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) SRAExists(ctx context.Context, sraID string) (bool, error) {
	_, err := r.GetBySRA(ctx, sraID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *testRepo) ListByFarm(ctx context.Context, farmID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.FarmID == farmID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) DeleteCascade(ctx context.Context, id string, damLabel string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	r.lastDamLabel = damLabel
	for cid, c := range r.byID {
		if c.DamID != nil && *c.DamID == id {
			c.DamID = nil
			c.DamLabel = damLabel
			r.byID[cid] = c
		}
	}
	for lid, l := range r.logs {
		if l.AnimalID == id {
			delete(r.logs, lid)
		}
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) Tags(ctx context.Context, farmID string) ([]string, error) {
	out := make([]string, 0)
	for _, a := range r.byID {
		if a.FarmID == farmID {
			out = append(out, a.TagID)
		}
	}
	return out, nil
}

func (r *testRepo) Search(ctx context.Context, farmID string, f SearchFilter) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.FarmID != farmID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(a.TagID), strings.ToLower(f.Query)) {
			continue
		}
		if f.Gender != "" && a.Gender != f.Gender {
			continue
		}
		if f.Species != "" && a.Species != f.Species {
			continue
		}
		out = append(out, a)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *testRepo) ListWeightLogs(ctx context.Context, animalID string) ([]WeightLog, error) {
	out := make([]WeightLog, 0)
	for _, l := range r.logs {
		if l.AnimalID == animalID {
			out = append(out, l)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
}

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo, DefaultStatusPolicy())
	svc.now = fixedNow
	return svc
}

func TestCreate_DefaultStatusAndSRAFormat(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID:   "12",
		Species: SpeciesCow,
		Gender:  GenderFemale,
		Origin:  OriginHomeBred,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.Status != StatusHeifer {
		t.Fatalf("expected default status Heifer for female, got %s", a.Status)
	}

	re := regexp.MustCompile(`^PK-COW-2025-[A-Z0-9]{4}$`)
	if !re.MatchString(a.SRAID) {
		t.Fatalf("unexpected sra id format: %s", a.SRAID)
	}

	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set")
	}
}

func TestCreate_MaleDefaultsToCalf(t *testing.T) {
	svc := newTestService(newTestRepo())

	a, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID:   "5",
		Species: SpeciesBuffalo,
		Gender:  GenderMale,
		Origin:  OriginHomeBred,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != StatusCalf {
		t.Fatalf("expected Calf, got %s", a.Status)
	}
	if !strings.HasPrefix(a.SRAID, "PK-BUF-") {
		t.Fatalf("expected buffalo code in sra id, got %s", a.SRAID)
	}
}

func TestCreate_ExplicitStatusWins(t *testing.T) {
	svc := newTestService(newTestRepo())

	a, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID:   "7",
		Species: SpeciesCow,
		Gender:  GenderFemale,
		Origin:  OriginHomeBred,
		Status:  StatusMilking,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != StatusMilking {
		t.Fatalf("expected Milking, got %s", a.Status)
	}
}

func TestCreate_DuplicateTagPerFarm(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := CreateInput{TagID: "12", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred}

	if _, err := svc.Create(ctx, "farm-1", in); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// mismo tag, misma granja => rechazado
	if _, err := svc.Create(ctx, "farm-1", in); !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}

	// mismo tag, OTRA granja => válido
	if _, err := svc.Create(ctx, "farm-2", in); err != nil {
		t.Fatalf("same tag other farm should work: %v", err)
	}
}

func TestCreate_DamResolution(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dam, err := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "1", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
	})
	if err != nil {
		t.Fatalf("create dam: %v", err)
	}

	calf, err := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "2", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
		DamTagID: "1",
	})
	if err != nil {
		t.Fatalf("create calf: %v", err)
	}
	if calf.DamID == nil || *calf.DamID != dam.ID {
		t.Fatalf("dam not resolved: %+v", calf.DamID)
	}

	// dam tag inexistente => ErrParentNotFound
	if _, err := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "3", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
		DamTagID: "99",
	}); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}

	// dam de OTRA granja no resuelve
	if _, err := svc.Create(ctx, "farm-2", CreateInput{
		TagID: "4", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
		DamTagID: "1",
	}); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound cross-farm, got %v", err)
	}
}

func TestCreate_PurchasePriceRequiresPurchasedOrigin(t *testing.T) {
	svc := newTestService(newTestRepo())
	price := 150000.0

	_, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID: "1", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
		PurchasePrice: &price,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	a, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID: "2", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginPurchased,
		PurchasePrice: &price,
	})
	if err != nil {
		t.Fatalf("create purchased: %v", err)
	}
	if a.PurchasePrice == nil || *a.PurchasePrice != price {
		t.Fatalf("purchase price not kept: %+v", a.PurchasePrice)
	}
}

func TestCreate_SRACollisionRetries(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Animal existente ocupa el SRA "PK-COW-2025-AAAA".
	repo.byID["x"] = Animal{ID: "x", FarmID: "other", TagID: "1", SRAID: "PK-COW-2025-AAAA"}

	seq := []string{"PK-COW-2025-AAAA", "PK-COW-2025-AAAA", "PK-COW-2025-BBBB"}
	i := 0
	svc.newSRA = func(Species) string {
		s := seq[i%len(seq)]
		i++
		return s
	}

	a, err := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "10", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.SRAID != "PK-COW-2025-BBBB" {
		t.Fatalf("expected retried sra id, got %s", a.SRAID)
	}
}

func TestCreate_InitialWeightLog(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	w := 32.5

	a, err := svc.Create(context.Background(), "farm-1", CreateInput{
		TagID: "1", Species: SpeciesGoat, Gender: GenderFemale, Origin: OriginHomeBred,
		WeightKg: &w,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	logs, _ := repo.ListWeightLogs(context.Background(), a.ID)
	if len(logs) != 1 {
		t.Fatalf("expected 1 weight log, got %d", len(logs))
	}
	if logs[0].WeightKg != w || logs[0].Notes != "Initial Weight" {
		t.Fatalf("unexpected log: %+v", logs[0])
	}
	if !logs[0].Date.Equal(fixedNow()) {
		t.Fatalf("log date should be now: %v", logs[0].Date)
	}
}

func TestNextTag(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Granja vacía => "1"
	tag, err := svc.NextTag(ctx, "farm-1")
	if err != nil || tag != "1" {
		t.Fatalf("expected 1, got %q err=%v", tag, err)
	}

	for _, t2 := range []string{"3", "7", "x-ray"} {
		repo.byID[t2] = Animal{ID: t2, FarmID: "farm-1", TagID: t2, SRAID: "sra-" + t2}
	}

	tag, err = svc.NextTag(ctx, "farm-1")
	if err != nil || tag != "8" {
		t.Fatalf("expected 8 (max numeric + 1), got %q err=%v", tag, err)
	}
}

func TestUpdate_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dob := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	a, err := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "1", Species: SpeciesCow, Breed: "Sahiwal", Gender: GenderFemale,
		Origin: OriginHomeBred, DOB: &dob,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Cambiar solo status: el resto queda igual.
	st := StatusMilking
	updated, err := svc.Update(ctx, "farm-1", a.ID, Patch{Status: &st})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusMilking || updated.Breed != "Sahiwal" || updated.DOB == nil {
		t.Fatalf("patch touched more than status: %+v", updated)
	}

	// dob: null explícito limpia el campo.
	updated, err = svc.Update(ctx, "farm-1", a.ID, Patch{DOB: OptionalDate{Present: true, Value: nil}})
	if err != nil {
		t.Fatalf("update dob null: %v", err)
	}
	if updated.DOB != nil {
		t.Fatalf("dob should be cleared")
	}

	// Animal de otra granja => ErrNotFound (sin filtrar existencia)
	if _, err := svc.Update(ctx, "farm-2", a.ID, Patch{Status: &st}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound cross-farm, got %v", err)
	}
}

func TestDelete_UsesCascadeWithPlaceholderLabel(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dam, _ := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "12", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
	})
	calf, _ := svc.Create(ctx, "farm-1", CreateInput{
		TagID: "13", Species: SpeciesCow, Gender: GenderFemale, Origin: OriginHomeBred,
		DamTagID: "12",
	})

	if err := svc.Delete(ctx, "farm-1", dam.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if repo.lastDamLabel != "Deleted #12" {
		t.Fatalf("expected placeholder label, got %q", repo.lastDamLabel)
	}

	got, err := repo.GetByID(ctx, calf.ID)
	if err != nil {
		t.Fatalf("calf should survive: %v", err)
	}
	if got.DamID != nil || got.DamLabel != "Deleted #12" {
		t.Fatalf("dam reference not cleared: %+v", got)
	}

	if _, err := repo.GetByID(ctx, dam.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("dam should be gone")
	}
}

func TestValidateSRA(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	repo.byID["a1"] = Animal{
		ID: "a1", FarmID: "farm-1", TagID: "12", SRAID: "PK-COW-2025-XYZ1",
		Species: SpeciesCow, Breed: "Sahiwal", Gender: GenderFemale,
	}

	// No existe
	res, err := svc.ValidateSRA(ctx, "PK-COW-2025-NOPE", "", "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Valid || res.Error != "SRA ID not found" {
		t.Fatalf("expected not-found result, got %+v", res)
	}

	// Gender mismatch
	res, _ = svc.ValidateSRA(ctx, "PK-COW-2025-XYZ1", GenderMale, "")
	if res.Valid || res.Error != "Gender mismatch: expected Male, found Female" {
		t.Fatalf("unexpected mismatch result: %+v", res)
	}

	// Species mismatch
	res, _ = svc.ValidateSRA(ctx, "PK-COW-2025-XYZ1", "", SpeciesBuffalo)
	if res.Valid || res.Error != "Species mismatch: expected Buffalo, found Cow" {
		t.Fatalf("unexpected mismatch result: %+v", res)
	}

	// OK
	res, _ = svc.ValidateSRA(ctx, "PK-COW-2025-XYZ1", GenderFemale, SpeciesCow)
	if !res.Valid || res.TagID != "12" || res.Breed != "Sahiwal" {
		t.Fatalf("expected valid result, got %+v", res)
	}
}

func TestMilkingCandidates_FiltersFemalesAlive(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	repo.byID["f1"] = Animal{ID: "f1", FarmID: "farm-1", TagID: "1", SRAID: "s1", Gender: GenderFemale, Status: StatusMilking}
	repo.byID["f2"] = Animal{ID: "f2", FarmID: "farm-1", TagID: "2", SRAID: "s2", Gender: GenderFemale, Status: StatusSold}
	repo.byID["f3"] = Animal{ID: "f3", FarmID: "farm-1", TagID: "3", SRAID: "s3", Gender: GenderFemale, Status: StatusDeceased}
	repo.byID["m1"] = Animal{ID: "m1", FarmID: "farm-1", TagID: "4", SRAID: "s4", Gender: GenderMale, Status: StatusCalf}

	out, err := svc.MilkingCandidates(ctx, "farm-1")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(out) != 1 || out[0].ID != "f1" {
		t.Fatalf("expected only f1, got %+v", out)
	}
}

func TestSearch_CapsLimitAtTen(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		id := "a" + strconv.Itoa(i)
		repo.byID[id] = Animal{
			ID: id, FarmID: "farm-1", TagID: "10" + strconv.Itoa(i), SRAID: "s" + id,
			Gender: GenderFemale, Species: SpeciesCow,
		}
	}

	out, err := svc.Search(ctx, "farm-1", SearchFilter{Query: "10", Limit: 100})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) != 10 {
		t.Fatalf("expected 10 results (cap), got %d", len(out))
	}

	out, err = svc.Search(ctx, "farm-1", SearchFilter{Query: "10", Limit: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
}
