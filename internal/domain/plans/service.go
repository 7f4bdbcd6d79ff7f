package plans

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx)
}

// DefaultPlanID resuelve el id del plan Free (para auto-aprovisionamiento).
func (s *Service) DefaultPlanID(ctx context.Context) (string, error) {
	p, err := s.repo.GetByName(ctx, DefaultPlanName)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// EnsureSeeded siembra los planes default si no existen todavía.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	return s.repo.Seed(ctx, DefaultPlans())
}

// DefaultPlans son los planes de referencia: Free, Basic, Pro.
func DefaultPlans() []Plan {
	return []Plan{
		{ID: uuid.NewString(), Name: "Free", PricePKR: 0.0, MaxAnimals: 5},
		{ID: uuid.NewString(), Name: "Basic", PricePKR: 1500.0, MaxAnimals: 20},
		{ID: uuid.NewString(), Name: "Pro", PricePKR: 5000.0, MaxAnimals: 100},
	}
}

// Normalize compara nombres de plan sin case (helper para repos).
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
