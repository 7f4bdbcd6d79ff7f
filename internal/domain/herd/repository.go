package herd

import "context"

type Repository interface {
	// Create persiste el animal y, si initialLog != nil, su primer weight
	// log en la misma unidad de trabajo: o entran ambos o ninguno.
	Create(ctx context.Context, a Animal, initialLog *WeightLog) error

	GetByID(ctx context.Context, id string) (Animal, error)
	GetByTag(ctx context.Context, farmID, tagID string) (Animal, error)
	GetBySRA(ctx context.Context, sraID string) (Animal, error)
	SRAExists(ctx context.Context, sraID string) (bool, error)

	ListByFarm(ctx context.Context, farmID string) ([]Animal, error)
	Update(ctx context.Context, a Animal) error

	// DeleteCascade borra el animal y sus dependientes en una sola unidad:
	// (a) limpia dam_id de otros animales y reescribe su dam_label con
	// damLabel, (b) borra sus weight logs, (c) borra sus milk entries,
	// (d) borra la fila del animal. Nada queda a medias.
	DeleteCascade(ctx context.Context, id string, damLabel string) error

	// Tags devuelve los tag ids de la granja (para sugerir el siguiente).
	Tags(ctx context.Context, farmID string) ([]string, error)

	Search(ctx context.Context, farmID string, f SearchFilter) ([]Animal, error)

	ListWeightLogs(ctx context.Context, animalID string) ([]WeightLog, error)
}

// SearchFilter es el filtro del autocomplete de tags.
type SearchFilter struct {
	Query   string // substring case-insensitive sobre tag_id
	Gender  Gender
	Species Species
	Limit   int
}
