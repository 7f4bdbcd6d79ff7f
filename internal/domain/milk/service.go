package milk

import (
	"context"
	"errors"
	"strings"
	"time"

	"apnifarm-api/internal/domain/herd"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// AnimalDirectory es el puerto mínimo hacia el registro del hato: solo
// necesitamos saber de qué granja es un animal.
type AnimalDirectory interface {
	FarmOf(ctx context.Context, animalID string) (string, error)
}

type Service struct {
	repo    Repository
	animals AnimalDirectory
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalDirectory) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

// EntryInput es el cuerpo de create/update. En update es reemplazo total
// de los campos mutables (mismo shape que create, como el contrato original).
type EntryInput struct {
	AnimalID string
	Liters   float64
	Date     *time.Time
	Session  Session

	RecordedAt    *time.Time
	FatPercentage *float64
	Quality       *string
}

func (s *Service) Add(ctx context.Context, farmID string, in EntryInput) (Entry, error) {
	farmID = strings.TrimSpace(farmID)
	in.AnimalID = strings.TrimSpace(in.AnimalID)

	if farmID == "" || in.AnimalID == "" {
		return Entry{}, ErrInvalidInput
	}
	if in.Liters < 0 {
		return Entry{}, ErrInvalidInput
	}
	if err := s.checkOwnership(ctx, farmID, in.AnimalID); err != nil {
		return Entry{}, err
	}

	recorded := s.now()
	if in.RecordedAt != nil {
		recorded = *in.RecordedAt
	}

	// Si no mandaron fecha, se normaliza desde recorded_at.
	date := recorded
	if in.Date != nil {
		date = *in.Date
	}

	e := Entry{
		ID:            uuid.NewString(),
		AnimalID:      in.AnimalID,
		Liters:        in.Liters,
		Date:          DayOf(date),
		Session:       in.Session,
		RecordedAt:    recorded,
		FatPercentage: in.FatPercentage,
		Quality:       in.Quality,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, farmID, entryID string, in EntryInput) (Entry, error) {
	existing, err := s.getOwned(ctx, farmID, entryID)
	if err != nil {
		return Entry{}, err
	}

	in.AnimalID = strings.TrimSpace(in.AnimalID)
	if in.AnimalID == "" || in.Liters < 0 {
		return Entry{}, ErrInvalidInput
	}

	// Si cambia el animal, el nuevo también debe ser de la granja.
	if in.AnimalID != existing.AnimalID {
		if err := s.checkOwnership(ctx, farmID, in.AnimalID); err != nil {
			return Entry{}, err
		}
	}

	recorded := existing.RecordedAt
	if in.RecordedAt != nil {
		recorded = *in.RecordedAt
	}
	date := recorded
	if in.Date != nil {
		date = *in.Date
	}

	updated := Entry{
		ID:            existing.ID,
		AnimalID:      in.AnimalID,
		Liters:        in.Liters,
		Date:          DayOf(date),
		Session:       in.Session,
		RecordedAt:    recorded,
		FatPercentage: in.FatPercentage,
		Quality:       in.Quality,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Entry{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, farmID, entryID string) error {
	if _, err := s.getOwned(ctx, farmID, entryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, entryID)
}

// ListQuery son los filtros del listado. DateShortcut ("today"|"yesterday")
// y From/To son alternativas; todos los criterios presentes se aplican AND.
type ListQuery struct {
	DateShortcut string
	From         *time.Time
	To           *time.Time
	AnimalID     string
	Session      Session
}

func (s *Service) List(ctx context.Context, farmID string, q ListQuery) ([]EntryWithAnimal, error) {
	if strings.TrimSpace(farmID) == "" {
		return nil, ErrInvalidInput
	}

	f := ListFilter{
		From:     q.From,
		To:       q.To,
		AnimalID: strings.TrimSpace(q.AnimalID),
		Session:  q.Session,
	}

	switch strings.ToLower(strings.TrimSpace(q.DateShortcut)) {
	case "":
		// sin shortcut
	case "today":
		d := DayOf(s.now())
		f.From, f.To = &d, &d
	case "yesterday":
		d := DayOf(s.now().AddDate(0, 0, -1))
		f.From, f.To = &d, &d
	default:
		return nil, ErrInvalidInput
	}

	return s.repo.List(ctx, farmID, f)
}

func (s *Service) getOwned(ctx context.Context, farmID, entryID string) (Entry, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return Entry{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return Entry{}, err
	}
	if err := s.checkOwnership(ctx, farmID, e.AnimalID); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// checkOwnership valida que el animal pertenezca a la granja. Un animal
// ajeno se reporta igual que uno inexistente (no filtramos existencia).
func (s *Service) checkOwnership(ctx context.Context, farmID, animalID string) error {
	owner, err := s.animals.FarmOf(ctx, animalID)
	if err != nil {
		if errors.Is(err, herd.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if owner != farmID {
		return ErrNotFound
	}
	return nil
}

// DayOf trunca un instante a su fecha calendario en UTC.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
