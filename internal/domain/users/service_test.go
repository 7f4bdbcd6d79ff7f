package users

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.SubjectID == u.SubjectID {
			return ErrInvalidInput
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetBySubject(ctx context.Context, subjectID string) (User, error) {
	for _, u := range r.byID {
		if u.SubjectID == subjectID {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

type testPlans struct {
	id  string
	err error
}

func (p *testPlans) DefaultPlanID(ctx context.Context) (string, error) {
	return p.id, p.err
}

func TestSync_ProvisionsOwnerWithDefaultPlan(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPlans{id: "plan-free"})
	ctx := context.Background()

	u, created, err := svc.Sync(ctx, "firebase-uid-1", "+923001234567")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first sync")
	}
	if u.Role != RoleOwner {
		t.Fatalf("expected Owner, got %s", u.Role)
	}
	if u.PlanID == nil || *u.PlanID != "plan-free" {
		t.Fatalf("expected free plan, got %+v", u.PlanID)
	}
	if u.SubjectID != "firebase-uid-1" || u.PhoneNumber != "+923001234567" {
		t.Fatalf("identity fields wrong: %+v", u)
	}
}

func TestSync_IsIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPlans{id: "plan-free"})
	ctx := context.Background()

	first, created, err := svc.Sync(ctx, "uid-1", "+92300")
	if err != nil || !created {
		t.Fatalf("first sync: created=%v err=%v", created, err)
	}

	second, created, err := svc.Sync(ctx, "uid-1", "+92999")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on repeat sync")
	}
	// Devuelve el existente tal cual: el teléfono nuevo no pisa nada.
	if second.ID != first.ID || second.PhoneNumber != "+92300" {
		t.Fatalf("expected existing user unchanged: %+v", second)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected single user, got %d", len(repo.byID))
	}
}

func TestSync_PlanResolutionIsBestEffort(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPlans{err: errors.New("plans unavailable")})

	u, created, err := svc.Sync(context.Background(), "uid-1", "")
	if err != nil || !created {
		t.Fatalf("sync should not fail on plan error: created=%v err=%v", created, err)
	}
	if u.PlanID != nil {
		t.Fatalf("expected nil plan id, got %v", *u.PlanID)
	}
}

func TestSync_RejectsEmptySubject(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	if _, _, err := svc.Sync(context.Background(), "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
