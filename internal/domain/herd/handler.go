package herd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"apnifarm-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// FarmResolver mapea el subject del token a la granja local. Lo implementa
// el módulo de users; acá solo se declara el puerto mínimo.
type FarmResolver interface {
	FarmID(ctx context.Context, subjectID string) (string, error)
}

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, farms FarmResolver) {
	r.Route("/herd", func(hr chi.Router) {
		hr.Post("/", createAnimalHandler(svc, farms))
		hr.Get("/", listAnimalsHandler(svc, farms))
		hr.Get("/next-tag", nextTagHandler(svc, farms))
		hr.Get("/search", searchAnimalsHandler(svc, farms))
		hr.Get("/validate-sra", validateSRAHandler(svc, farms))
		hr.Get("/{animalID}", getAnimalHandler(svc, farms))
		hr.Put("/{animalID}", updateAnimalHandler(svc, farms))
		hr.Delete("/{animalID}", deleteAnimalHandler(svc, farms))
		hr.Get("/{animalID}/weights", weightHistoryHandler(svc, farms))
	})

	// Ruta legacy del picker de ordeño en la app móvil.
	r.Get("/animals/milking", milkingCandidatesHandler(svc, farms))
}

type createAnimalRequest struct {
	TagID         string   `json:"tag_id"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	Gender        string   `json:"gender"`
	DOB           string   `json:"dob"` // YYYY-MM-DD
	Origin        string   `json:"origin"`
	Status        string   `json:"status"`
	PurchasePrice *float64 `json:"purchase_price"`
	DamTagID      string   `json:"dam_tag_id"`
	DamLabel      string   `json:"dam_label"`
	SireLabel     string   `json:"sire_label"`
	WeightKg      *float64 `json:"weight_kg"`
}

type animalResponse struct {
	ID            string   `json:"id"`
	FarmID        string   `json:"farm_id"`
	TagID         string   `json:"tag_id"`
	SRAID         string   `json:"sra_id"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	Gender        string   `json:"gender"`
	DOB           *string  `json:"dob"`
	Origin        string   `json:"origin"`
	Status        string   `json:"status"`
	PurchasePrice *float64 `json:"purchase_price"`
	DamID         *string  `json:"dam_id"`
	DamLabel      string   `json:"dam_label"`
	SireLabel     string   `json:"sire_label"`
	InitialWeight *float64 `json:"initial_weight"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type weightLogResponse struct {
	ID       string  `json:"id"`
	AnimalID string  `json:"animal_id"`
	WeightKg float64 `json:"weight_kg"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

type sraValidationResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	TagID string `json:"tag_id,omitempty"`
	Breed string `json:"breed,omitempty"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Crea el animal con SRA ID autogenerado. tag_id es único por granja; dam_tag_id (opcional) debe resolver a un animal propio.
// @Tags herd
// @Accept json
// @Produce json
// @Param payload body createAnimalRequest true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "validación"
// @Failure 409 {string} string "sra id duplicado"
// @Router /herd/ [post]
func createAnimalHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			TagID:         req.TagID,
			Species:       Species(strings.TrimSpace(req.Species)),
			Breed:         req.Breed,
			Gender:        Gender(strings.TrimSpace(req.Gender)),
			Origin:        Origin(strings.TrimSpace(req.Origin)),
			Status:        Status(strings.TrimSpace(req.Status)),
			PurchasePrice: req.PurchasePrice,
			DamTagID:      req.DamTagID,
			DamLabel:      req.DamLabel,
			SireLabel:     req.SireLabel,
			WeightKg:      req.WeightKg,
		}
		if strings.TrimSpace(req.DOB) != "" {
			d, err := time.Parse(dateLayout, strings.TrimSpace(req.DOB))
			if err != nil {
				http.Error(w, "invalid dob, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.DOB = &d
		}

		a, err := svc.Create(r.Context(), farmID, in)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByFarm(r.Context(), farmID)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func getAnimalHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetForFarm(r.Context(), farmID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Actualizar animal (parcial)
// @Description Solo cambia los campos presentes en el body. dob/purchase_price/initial_weight aceptan null explícito para limpiar.
// @Tags herd
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Router /herd/{animalID} [put]
func updateAnimalHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decode a raw map para distinguir "campo ausente" de "campo null".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := patchFromRaw(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), farmID, chi.URLParam(r, "animalID"), p)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), farmID, chi.URLParam(r, "animalID")); err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Animal deleted successfully"})
	}
}

func nextTagHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tag, err := svc.NextTag(r.Context(), farmID)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"next_tag": tag})
	}
}

// searchAnimalsHandler es el autocomplete: ?q=substring&gender=&species=,
// máximo 10 resultados.
func searchAnimalsHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		f := SearchFilter{
			Query:   q.Get("q"),
			Gender:  Gender(strings.TrimSpace(q.Get("gender"))),
			Species: Species(strings.TrimSpace(q.Get("species"))),
		}

		items, err := svc.Search(r.Context(), farmID, f)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// validateSRAHandler godoc
// @Summary Validar un SRA ID externo
// @Description Chequea existencia y coherencia de género/especie para vincular linaje. Un mismatch responde 200 con valid=false.
// @Tags herd
// @Produce json
// @Param sra_id query string true "SRA ID"
// @Param gender query string false "Género esperado"
// @Param species query string false "Especie esperada"
// @Success 200 {object} sraValidationResponse
// @Router /herd/validate-sra [get]
func validateSRAHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentFarm(r, farms); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		res, err := svc.ValidateSRA(r.Context(),
			q.Get("sra_id"),
			Gender(strings.TrimSpace(q.Get("gender"))),
			Species(strings.TrimSpace(q.Get("species"))),
		)
		if err != nil {
			writeHerdError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sraValidationResponse{
			Valid: res.Valid,
			Error: res.Error,
			TagID: res.TagID,
			Breed: res.Breed,
		})
	}
}

func milkingCandidatesHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.MilkingCandidates(r.Context(), farmID)
		if err != nil {
			writeHerdError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func weightHistoryHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		logs, err := svc.WeightHistory(r.Context(), farmID, chi.URLParam(r, "animalID"))
		if err != nil {
			writeHerdError(w, err)
			return
		}

		out := make([]weightLogResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, weightLogResponse{
				ID:       l.ID,
				AnimalID: l.AnimalID,
				WeightKg: l.WeightKg,
				Date:     l.Date.UTC().Format(time.RFC3339),
				Notes:    l.Notes,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// patchFromRaw arma el Patch a partir del body crudo. Campos con Optional
// (dob, purchase_price, initial_weight) distinguen ausente de null.
func patchFromRaw(raw map[string]json.RawMessage) (Patch, error) {
	var p Patch

	str := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, errors.New("invalid " + key)
		}
		return &s, nil
	}

	if s, err := str("tag_id"); err != nil {
		return Patch{}, err
	} else if s != nil {
		p.TagID = s
	}
	if s, err := str("breed"); err != nil {
		return Patch{}, err
	} else if s != nil {
		p.Breed = s
	}
	if s, err := str("species"); err != nil {
		return Patch{}, err
	} else if s != nil {
		sp := Species(strings.TrimSpace(*s))
		p.Species = &sp
	}
	if s, err := str("gender"); err != nil {
		return Patch{}, err
	} else if s != nil {
		g := Gender(strings.TrimSpace(*s))
		p.Gender = &g
	}
	if s, err := str("origin"); err != nil {
		return Patch{}, err
	} else if s != nil {
		o := Origin(strings.TrimSpace(*s))
		p.Origin = &o
	}
	if s, err := str("status"); err != nil {
		return Patch{}, err
	} else if s != nil {
		st := Status(strings.TrimSpace(*s))
		p.Status = &st
	}

	if v, ok := raw["dob"]; ok {
		p.DOB.Present = true
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return Patch{}, errors.New("invalid dob")
		}
		if s != nil {
			d, err := time.Parse(dateLayout, strings.TrimSpace(*s))
			if err != nil {
				return Patch{}, errors.New("invalid dob, expected YYYY-MM-DD")
			}
			p.DOB.Value = &d
		}
	}
	if v, ok := raw["purchase_price"]; ok {
		p.PurchasePrice.Present = true
		if err := json.Unmarshal(v, &p.PurchasePrice.Value); err != nil {
			return Patch{}, errors.New("invalid purchase_price")
		}
	}
	if v, ok := raw["initial_weight"]; ok {
		p.InitialWeight.Present = true
		if err := json.Unmarshal(v, &p.InitialWeight.Value); err != nil {
			return Patch{}, errors.New("invalid initial_weight")
		}
	}

	return p, nil
}

func toAnimalResponse(a Animal) animalResponse {
	resp := animalResponse{
		ID:            a.ID,
		FarmID:        a.FarmID,
		TagID:         a.TagID,
		SRAID:         a.SRAID,
		Species:       string(a.Species),
		Breed:         a.Breed,
		Gender:        string(a.Gender),
		Origin:        string(a.Origin),
		Status:        string(a.Status),
		PurchasePrice: a.PurchasePrice,
		DamID:         a.DamID,
		DamLabel:      a.DamLabel,
		SireLabel:     a.SireLabel,
		InitialWeight: a.InitialWeight,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.DOB != nil {
		d := a.DOB.UTC().Format(dateLayout)
		resp.DOB = &d
	}
	return resp
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	return out
}

func writeHerdError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicateTag):
		http.Error(w, "Tag ID already exists for this farm", http.StatusBadRequest)
	case errors.Is(err, ErrParentNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSRAConflict):
		http.Error(w, "SRA ID conflict, retry the request", http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// currentFarm resuelve claims -> usuario local -> id de granja. Sin usuario
// registrado no hay granja, y todas las rutas del hato requieren una.
func currentFarm(r *http.Request, farms FarmResolver) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", false
	}
	farmID, err := farms.FarmID(r.Context(), claims.UserID)
	if err != nil || farmID == "" {
		return "", false
	}
	return farmID, true
}

// Duplicado a propósito en cada paquete de handlers (ver users.writeJSON).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
