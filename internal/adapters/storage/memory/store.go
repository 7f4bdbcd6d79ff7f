// Package memory implementa los repositorios sobre maps en memoria. Es el
// storage de desarrollo y tests; el contrato es el mismo que el de postgres.
//
// Un único Store comparte el mutex entre dominios para que el delete en
// cascada (animal + weight logs + milk entries) sea atómico también acá.
package memory

import (
	"sync"

	"apnifarm-api/internal/domain/herd"
	"apnifarm-api/internal/domain/milk"
	"apnifarm-api/internal/domain/plans"
	"apnifarm-api/internal/domain/users"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]users.User     // id -> user
	plans       map[string]plans.Plan     // id -> plan
	animals     map[string]herd.Animal    // id -> animal
	weightLogs  map[string]herd.WeightLog // id -> log
	milkEntries map[string]milk.Entry     // id -> entry
}

func NewStore() *Store {
	return &Store{
		users:       map[string]users.User{},
		plans:       map[string]plans.Plan{},
		animals:     map[string]herd.Animal{},
		weightLogs:  map[string]herd.WeightLog{},
		milkEntries: map[string]milk.Entry{},
	}
}

// Vistas por dominio sobre el mismo store.

func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }
func (s *Store) Plans() *PlanRepository { return &PlanRepository{store: s} }
func (s *Store) Herd() *HerdRepository  { return &HerdRepository{store: s} }
func (s *Store) Milk() *MilkRepository  { return &MilkRepository{store: s} }
