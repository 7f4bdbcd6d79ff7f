package milk

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

// FarmResolver mapea el subject del token a la granja local (mismo puerto
// que en herd; cada módulo declara el suyo para no acoplarse a users).
type FarmResolver interface {
	FarmID(ctx context.Context, subjectID string) (string, error)
}

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, farms FarmResolver) {
	r.Route("/milk", func(mr chi.Router) {
		mr.Post("/", addEntryHandler(svc, farms))
		mr.Get("/", listEntriesHandler(svc, farms))
		mr.Get("/stats", statsHandler(svc, farms))
		mr.Put("/{entryID}", updateEntryHandler(svc, farms))
		mr.Delete("/{entryID}", deleteEntryHandler(svc, farms))
	})
}

type entryRequest struct {
	AnimalID      string   `json:"animal_id"`
	Liters        float64  `json:"liters"`
	Date          string   `json:"date"`        // YYYY-MM-DD, opcional
	Session       string   `json:"session"`     // morning | evening
	RecordedAt    string   `json:"recorded_at"` // RFC3339, opcional
	FatPercentage *float64 `json:"fat_percentage"`
	Quality       *string  `json:"quality"`
}

type entryResponse struct {
	ID            string   `json:"id"`
	AnimalID      string   `json:"animal_id"`
	Liters        float64  `json:"liters"`
	Date          string   `json:"date"`
	Session       string   `json:"session"`
	RecordedAt    string   `json:"recorded_at"`
	FatPercentage *float64 `json:"fat_percentage"`
	Quality       *string  `json:"quality"`
}

type entryWithAnimalResponse struct {
	entryResponse

	AnimalTagID   string `json:"animal_tag_id"`
	AnimalSpecies string `json:"animal_species"`
}

type statsResponse struct {
	TotalLiters  float64 `json:"total_liters"`
	AnimalCount  int     `json:"animal_count"`
	AvgPerAnimal float64 `json:"avg_per_animal"`

	DailyProduction []dailyPointResponse `json:"daily_production"`

	SpeciesBreakdown []breakdownResponse `json:"species_breakdown"`
	BreedBreakdown   []breakdownResponse `json:"breed_breakdown"`

	TopProducers []producerResponse `json:"top_producers"`
}

type dailyPointResponse struct {
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
}

type breakdownResponse struct {
	Label       string  `json:"label"`
	TotalLiters float64 `json:"total_liters"`
	AvgLiters   float64 `json:"avg_liters"`
}

type producerResponse struct {
	TagID       string  `json:"tag_id"`
	TotalLiters float64 `json:"total_liters"`
}

// addEntryHandler godoc
// @Summary Registrar producción de leche
// @Description Crea una entrada del ledger. Sin date se normaliza desde recorded_at; sin recorded_at se usa el reloj del server.
// @Tags milk
// @Accept json
// @Produce json
// @Param payload body entryRequest true "Datos de la entrada"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "validación"
// @Failure 404 {string} string "animal ajeno o inexistente"
// @Router /milk/ [post]
func addEntryHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		in, err := decodeEntryRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Add(r.Context(), farmID, in)
		if err != nil {
			writeMilkError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// listEntriesHandler filtra por ?date_filter=today|yesterday o
// ?start_date/?end_date, más animal_id y session. Orden: recorded_at desc.
func listEntriesHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		lq := ListQuery{
			DateShortcut: q.Get("date_filter"),
			AnimalID:     q.Get("animal_id"),
			Session:      Session(strings.TrimSpace(q.Get("session"))),
		}

		var err error
		if lq.From, err = parseDateParam(q.Get("start_date")); err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if lq.To, err = parseDateParam(q.Get("end_date")); err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), farmID, lq)
		if err != nil {
			writeMilkError(w, err)
			return
		}

		out := make([]entryWithAnimalResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryWithAnimalResponse{
				entryResponse: toEntryResponse(e.Entry),
				AnimalTagID:   e.AnimalTagID,
				AnimalSpecies: e.AnimalSpecies,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateEntryHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		in, err := decodeEntryRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		e, err := svc.Update(r.Context(), farmID, chi.URLParam(r, "entryID"), in)
		if err != nil {
			writeMilkError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func deleteEntryHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), farmID, chi.URLParam(r, "entryID")); err != nil {
			writeMilkError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Milk entry deleted successfully"})
	}
}

// statsHandler godoc
// @Summary Analytics de producción
// @Description Totales, serie diaria, breakdown por especie (o por raza si hay filtro de especie) y top 5 productoras. Sin rango: últimos 7 días.
// @Tags milk
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param species query string false "Filtra por especie"
// @Param breed query string false "Filtra por raza"
// @Param status query string false "Filtra por status del animal"
// @Success 200 {object} statsResponse
// @Router /milk/stats [get]
func statsHandler(svc *Service, farms FarmResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmID, ok := currentFarm(r, farms)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		sq := StatsQuery{
			Species: q.Get("species"),
			Breed:   q.Get("breed"),
			Status:  q.Get("status"),
		}

		var err error
		if sq.From, err = parseDateParam(q.Get("start_date")); err != nil {
			http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if sq.To, err = parseDateParam(q.Get("end_date")); err != nil {
			http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		st, err := svc.Stats(r.Context(), farmID, sq)
		if err != nil {
			writeMilkError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatsResponse(st))
	}
}

func decodeEntryRequest(r *http.Request) (EntryInput, error) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return EntryInput{}, errors.New("invalid json")
	}

	in := EntryInput{
		AnimalID:      req.AnimalID,
		Liters:        req.Liters,
		Session:       Session(strings.TrimSpace(req.Session)),
		FatPercentage: req.FatPercentage,
		Quality:       req.Quality,
	}

	if s := strings.TrimSpace(req.Date); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return EntryInput{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
		in.Date = &d
	}
	if s := strings.TrimSpace(req.RecordedAt); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return EntryInput{}, errors.New("invalid recorded_at, expected RFC3339")
		}
		in.RecordedAt = &t
	}

	return in, nil
}

func parseDateParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		AnimalID:      e.AnimalID,
		Liters:        e.Liters,
		Date:          e.Date.UTC().Format(dateLayout),
		Session:       string(e.Session),
		RecordedAt:    e.RecordedAt.UTC().Format(time.RFC3339),
		FatPercentage: e.FatPercentage,
		Quality:       e.Quality,
	}
}

func toStatsResponse(st Stats) statsResponse {
	resp := statsResponse{
		TotalLiters:      st.TotalLiters,
		AnimalCount:      st.AnimalCount,
		AvgPerAnimal:     st.AvgPerAnimal,
		DailyProduction:  []dailyPointResponse{},
		SpeciesBreakdown: []breakdownResponse{},
		BreedBreakdown:   []breakdownResponse{},
		TopProducers:     []producerResponse{},
	}
	for _, p := range st.DailyProduction {
		resp.DailyProduction = append(resp.DailyProduction, dailyPointResponse{
			Date:   p.Date.UTC().Format(dateLayout),
			Liters: p.Liters,
		})
	}
	for _, b := range st.SpeciesBreakdown {
		resp.SpeciesBreakdown = append(resp.SpeciesBreakdown, breakdownResponse(b))
	}
	for _, b := range st.BreedBreakdown {
		resp.BreedBreakdown = append(resp.BreedBreakdown, breakdownResponse(b))
	}
	for _, p := range st.TopProducers {
		resp.TopProducers = append(resp.TopProducers, producerResponse(p))
	}
	return resp
}

func writeMilkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Mismo helper que en herd/users; duplicado a propósito.
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
