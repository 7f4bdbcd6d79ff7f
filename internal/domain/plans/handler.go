package plans

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/plans/", listPlansHandler(svc))
}

type planResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PricePKR   float64 `json:"price_pkr"`
	MaxAnimals int     `json:"max_animals"`
}

// listPlansHandler godoc
// @Summary Listar planes de suscripción
// @Tags plans
// @Produce json
// @Success 200 {array} planResponse
// @Router /plans/ [get]
func listPlansHandler(svc *Service) http.HandlerFunc {
	// Data de referencia pública: no exige auth.
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, planResponse{
				ID:         p.ID,
				Name:       p.Name,
				PricePKR:   p.PricePKR,
				MaxAnimals: p.MaxAnimals,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}
