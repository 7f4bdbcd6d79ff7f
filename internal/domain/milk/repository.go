package milk

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id string) error

	// List devuelve entries de la granja (join por animal) con los datos
	// del animal, ordenadas por recorded_at descendente.
	List(ctx context.Context, farmID string, f ListFilter) ([]EntryWithAnimal, error)

	// ListForStats devuelve las filas crudas (entry + atributos del animal)
	// que matchean el filtro; la agregación la hace el motor de stats.
	ListForStats(ctx context.Context, farmID string, f StatsFilter) ([]StatsRow, error)
}

// ListFilter filtra el listado; todos los criterios son AND.
// From/To son inclusivos sobre Date.
type ListFilter struct {
	From     *time.Time
	To       *time.Time
	AnimalID string
	Session  Session
}

// StatsFilter acota el universo de filas para analytics.
type StatsFilter struct {
	From *time.Time
	To   *time.Time

	Species string
	Breed   string
	Status  string
}

// StatsRow es una fila cruda para agregación.
type StatsRow struct {
	AnimalID string
	TagID    string
	Species  string
	Breed    string
	Liters   float64
	Date     time.Time
}
