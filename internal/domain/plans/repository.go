package plans

import "context"

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	GetByName(ctx context.Context, name string) (Plan, error)

	// Seed inserta los planes solo si el store está vacío (idempotente).
	Seed(ctx context.Context, items []Plan) error
}
