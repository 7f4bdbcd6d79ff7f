package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"apnifarm-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/users/", registerUserHandler(svc))
	r.Get("/users/me", currentUserHandler(svc))
	r.Post("/api/auth/sync", syncUserHandler(svc))
}

type registerUserRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type userResponse struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	PlanID      *string   `json:"plan_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type syncResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
	New    bool   `json:"new"`
}

// registerUserHandler godoc
// @Summary Registrar usuario/granja
// @Description Crea (o devuelve) el usuario local asociado al token del identity provider. Idempotente.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerUserRequest true "Teléfono de contacto"
// @Success 201 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Router /users/ [post]
func registerUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		phone := strings.TrimSpace(req.PhoneNumber)
		if phone == "" {
			phone = claims.PhoneNumber
		}

		u, created, err := svc.Sync(r.Context(), claims.UserID, phone)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, toUserResponse(u))
	}
}

func currentUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetBySubject(r.Context(), claims.UserID)
		if err != nil {
			// Identidad válida pero sin registro local: el cliente debe
			// pasar por POST /users/ primero.
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func syncUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, created, err := svc.Sync(r.Context(), claims.UserID, claims.PhoneNumber)
		if err != nil {
			http.Error(w, "failed to sync user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, syncResponse{
			Status: "synced",
			UserID: u.ID,
			New:    created,
		})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		FirebaseUID: u.SubjectID,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		PlanID:      u.PlanID,
		CreatedAt:   u.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos; si se repite en más lugares conviene extraerlo a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
