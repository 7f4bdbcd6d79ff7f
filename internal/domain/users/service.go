package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// PlanDirectory resuelve el plan default al aprovisionar usuarios nuevos.
// Puede ser nil (el usuario queda sin plan y se asigna después).
type PlanDirectory interface {
	DefaultPlanID(ctx context.Context) (string, error)
}

type Service struct {
	repo  Repository
	plans PlanDirectory
	now   func() time.Time
}

func NewService(repo Repository, plans PlanDirectory) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
		now:   time.Now,
	}
}

// Sync es el resolver de identidad: mapea el subject id externo a un
// usuario local, aprovisionando en el primer acceso (role Owner, plan
// Free). Idempotente: si ya existe, lo devuelve tal cual.
func (s *Service) Sync(ctx context.Context, subjectID, phone string) (User, bool, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return User{}, false, ErrInvalidInput
	}

	if u, err := s.repo.GetBySubject(ctx, subjectID); err == nil {
		return u, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}

	var planID *string
	if s.plans != nil {
		// Best-effort: si el plan default no resuelve, el usuario entra
		// sin plan en vez de fallar el registro.
		if id, err := s.plans.DefaultPlanID(ctx); err == nil && id != "" {
			planID = &id
		}
	}

	u := User{
		ID:          uuid.NewString(),
		SubjectID:   subjectID,
		PhoneNumber: strings.TrimSpace(phone),
		Role:        RoleOwner,
		PlanID:      planID,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// GetBySubject resuelve el usuario local de una identidad ya registrada.
func (s *Service) GetBySubject(ctx context.Context, subjectID string) (User, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetBySubject(ctx, subjectID)
}
