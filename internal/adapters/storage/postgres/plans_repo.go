package postgres

import (
	"context"
	"database/sql"

	"apnifarm-api/internal/domain/plans"
)

type PlansRepo struct {
	db *sql.DB
}

func NewPlansRepo(db *sql.DB) *PlansRepo {
	return &PlansRepo{db: db}
}

func (r *PlansRepo) List(ctx context.Context) ([]plans.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price_pkr, max_animals
		FROM subscription_plans
		ORDER BY price_pkr ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plans.Plan, 0)
	for rows.Next() {
		var p plans.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.PricePKR, &p.MaxAnimals); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlansRepo) GetByName(ctx context.Context, name string) (plans.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, price_pkr, max_animals
		FROM subscription_plans
		WHERE lower(name) = $1
	`, plans.Normalize(name))

	var p plans.Plan
	if err := row.Scan(&p.ID, &p.Name, &p.PricePKR, &p.MaxAnimals); err != nil {
		if err == sql.ErrNoRows {
			return plans.Plan{}, plans.ErrNotFound
		}
		return plans.Plan{}, err
	}
	return p, nil
}

func (r *PlansRepo) Seed(ctx context.Context, items []plans.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscription_plans`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subscription_plans (id, name, price_pkr, max_animals)
			VALUES ($1,$2,$3,$4)
		`, p.ID, p.Name, p.PricePKR, p.MaxAnimals); err != nil {
			return err
		}
	}
	return tx.Commit()
}
