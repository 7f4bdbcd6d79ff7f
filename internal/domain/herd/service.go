package herd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateTag   = errors.New("tag id already exists for this farm")
	ErrParentNotFound = errors.New("parent not found")

	// ErrSRAConflict: el unique constraint global de sra_id saltó al
	// commitear. Es el backstop de la generación best-effort; el caller
	// puede reintentar el create.
	ErrSRAConflict = errors.New("sra id already exists")
)

const (
	sraMaxAttempts    = 5
	searchLimit       = 10
	initialWeightNote = "Initial Weight"
)

// StatusPolicy define el status inicial por género cuando el caller no
// manda uno explícito. Configurable por deployment, no hardcodeado.
type StatusPolicy struct {
	MaleDefault   Status
	FemaleDefault Status
}

func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		MaleDefault:   StatusCalf,
		FemaleDefault: StatusHeifer,
	}
}

type Service struct {
	repo   Repository
	policy StatusPolicy
	now    func() time.Time

	// newSRA es inyectable para tests de colisión.
	newSRA func(Species) string
}

func NewService(repo Repository, policy StatusPolicy) *Service {
	if policy.MaleDefault == "" {
		policy.MaleDefault = StatusCalf
	}
	if policy.FemaleDefault == "" {
		policy.FemaleDefault = StatusHeifer
	}

	s := &Service{
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
	s.newSRA = func(sp Species) string { return newSRAID(sp, s.now()) }
	return s
}

type CreateInput struct {
	TagID   string
	Species Species
	Breed   string
	Gender  Gender
	DOB     *time.Time
	Origin  Origin
	Status  Status // opcional; si viene vacío aplica la policy por género

	// Solo válido con Origin == Purchased.
	PurchasePrice *float64

	// Genealogía: DamTagID se resuelve a un animal de la misma granja.
	// Los labels quedan como texto libre para padres no registrados.
	DamTagID  string
	DamLabel  string
	SireLabel string

	// Peso inicial: genera un weight log fechado "ahora".
	WeightKg *float64
}

func (s *Service) Create(ctx context.Context, farmID string, in CreateInput) (Animal, error) {
	farmID = strings.TrimSpace(farmID)
	in.TagID = strings.TrimSpace(in.TagID)

	if farmID == "" || in.TagID == "" || in.Species == "" || in.Gender == "" || in.Origin == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.PurchasePrice != nil && in.Origin != OriginPurchased {
		return Animal{}, fmt.Errorf("%w: purchase price requires Purchased origin", ErrInvalidInput)
	}

	// Tag único por granja (el mismo tag en OTRA granja es válido).
	if _, err := s.repo.GetByTag(ctx, farmID, in.TagID); err == nil {
		return Animal{}, ErrDuplicateTag
	} else if !errors.Is(err, ErrNotFound) {
		return Animal{}, err
	}

	// Resolver dam tag -> id interno, siempre dentro de la misma granja.
	var damID *string
	if tag := strings.TrimSpace(in.DamTagID); tag != "" {
		dam, err := s.repo.GetByTag(ctx, farmID, tag)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Animal{}, fmt.Errorf("%w: dam tag %q", ErrParentNotFound, tag)
			}
			return Animal{}, err
		}
		damID = &dam.ID
	}

	// SRA ID: generar y chequear unicidad global con reintentos acotados.
	// Si los 5 intentos colisionan seguimos con el último valor generado;
	// el unique constraint del storage es el backstop (sin loop infinito).
	sraID := s.newSRA(in.Species)
	for i := 0; i < sraMaxAttempts; i++ {
		exists, err := s.repo.SRAExists(ctx, sraID)
		if err != nil {
			return Animal{}, err
		}
		if !exists {
			break
		}
		sraID = s.newSRA(in.Species)
	}

	status := in.Status
	if status == "" {
		if in.Gender == GenderMale {
			status = s.policy.MaleDefault
		} else {
			status = s.policy.FemaleDefault
		}
	}

	now := s.now()
	a := Animal{
		ID:            uuid.NewString(),
		FarmID:        farmID,
		TagID:         in.TagID,
		SRAID:         sraID,
		Species:       in.Species,
		Breed:         strings.TrimSpace(in.Breed),
		Gender:        in.Gender,
		DOB:           in.DOB,
		Origin:        in.Origin,
		Status:        status,
		DamID:         damID,
		DamLabel:      strings.TrimSpace(in.DamLabel),
		SireLabel:     strings.TrimSpace(in.SireLabel),
		InitialWeight: in.WeightKg,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Origin == OriginPurchased {
		a.PurchasePrice = in.PurchasePrice
	}

	var initialLog *WeightLog
	if in.WeightKg != nil {
		initialLog = &WeightLog{
			ID:       uuid.NewString(),
			AnimalID: a.ID,
			WeightKg: *in.WeightKg,
			Date:     now,
			Notes:    initialWeightNote,
		}
	}

	if err := s.repo.Create(ctx, a, initialLog); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// GetForFarm resuelve un animal verificando ownership: un animal de otra
// granja es indistinguible de uno inexistente.
func (s *Service) GetForFarm(ctx context.Context, farmID, id string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.FarmID != farmID {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListByFarm(ctx context.Context, farmID string) ([]Animal, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// OptionalDate y OptionalFloat distinguen "no enviado" de "enviar null".
type OptionalDate struct {
	Present bool
	Value   *time.Time
}

type OptionalFloat struct {
	Present bool
	Value   *float64
}

// Patch enumera los campos parcheables: nil/ausente = no tocar.
// No se re-validan invariantes cruzados (cambiar origin no limpia
// purchase_price); comportamiento actual, deliberadamente laxo.
type Patch struct {
	TagID   *string
	Species *Species
	Breed   *string
	Gender  *Gender
	Origin  *Origin
	Status  *Status

	DOB           OptionalDate
	PurchasePrice OptionalFloat
	InitialWeight OptionalFloat
}

func (s *Service) Update(ctx context.Context, farmID, id string, p Patch) (Animal, error) {
	a, err := s.GetForFarm(ctx, farmID, id)
	if err != nil {
		return Animal{}, err
	}

	if p.TagID != nil {
		tag := strings.TrimSpace(*p.TagID)
		if tag == "" {
			return Animal{}, ErrInvalidInput
		}
		a.TagID = tag
	}
	if p.Species != nil {
		a.Species = *p.Species
	}
	if p.Breed != nil {
		a.Breed = strings.TrimSpace(*p.Breed)
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	if p.Origin != nil {
		a.Origin = *p.Origin
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.DOB.Present {
		a.DOB = p.DOB.Value
	}
	if p.PurchasePrice.Present {
		a.PurchasePrice = p.PurchasePrice.Value
	}
	if p.InitialWeight.Present {
		a.InitialWeight = p.InitialWeight.Value
	}

	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// Delete elimina el animal con limpieza en cascada: referencias de dam en
// otros animales pasan a null con label placeholder, y weight logs y milk
// entries del animal se borran. Todo o nada.
func (s *Service) Delete(ctx context.Context, farmID, id string) error {
	a, err := s.GetForFarm(ctx, farmID, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCascade(ctx, a.ID, "Deleted #"+a.TagID)
}

// NextTag sugiere el siguiente tag: max numérico de los tags existentes + 1.
// Tags no numéricos no participan del cálculo.
func (s *Service) NextTag(ctx context.Context, farmID string) (string, error) {
	tags, err := s.repo.Tags(ctx, farmID)
	if err != nil {
		return "", err
	}

	max := 0
	for _, t := range tags {
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1), nil
}

// Search es el autocomplete de tags: substring case-insensitive con
// filtros opcionales, capado a 10 resultados.
func (s *Service) Search(ctx context.Context, farmID string, f SearchFilter) ([]Animal, error) {
	if f.Limit <= 0 || f.Limit > searchLimit {
		f.Limit = searchLimit
	}
	return s.repo.Search(ctx, farmID, f)
}

// SRAValidation es el resultado estructurado de validar un SRA ID externo
// (para linaje). Mismatch no es un error de la operación.
type SRAValidation struct {
	Valid bool
	Error string

	// Campos descriptivos mínimos cuando Valid == true.
	TagID string
	Breed string
}

func (s *Service) ValidateSRA(ctx context.Context, sraID string, gender Gender, species Species) (SRAValidation, error) {
	sraID = strings.TrimSpace(sraID)
	if sraID == "" {
		return SRAValidation{}, ErrInvalidInput
	}

	a, err := s.repo.GetBySRA(ctx, sraID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SRAValidation{Valid: false, Error: "SRA ID not found"}, nil
		}
		return SRAValidation{}, err
	}

	if gender != "" && a.Gender != gender {
		return SRAValidation{
			Valid: false,
			Error: fmt.Sprintf("Gender mismatch: expected %s, found %s", gender, a.Gender),
		}, nil
	}
	if species != "" && a.Species != species {
		return SRAValidation{
			Valid: false,
			Error: fmt.Sprintf("Species mismatch: expected %s, found %s", species, a.Species),
		}, nil
	}

	return SRAValidation{Valid: true, TagID: a.TagID, Breed: a.Breed}, nil
}

// MilkingCandidates lista hembras ordeñables (excluye Sold/Deceased).
func (s *Service) MilkingCandidates(ctx context.Context, farmID string) ([]Animal, error) {
	items, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}

	out := make([]Animal, 0, len(items))
	for _, a := range items {
		if a.Gender != GenderFemale {
			continue
		}
		if a.Status == StatusSold || a.Status == StatusDeceased {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// WeightHistory devuelve los weight logs de un animal de la granja.
func (s *Service) WeightHistory(ctx context.Context, farmID, animalID string) ([]WeightLog, error) {
	if _, err := s.GetForFarm(ctx, farmID, animalID); err != nil {
		return nil, err
	}
	return s.repo.ListWeightLogs(ctx, animalID)
}
