package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"apnifarm-api/internal/domain/milk"
)

type MilkRepo struct {
	db *sql.DB
}

func NewMilkRepo(db *sql.DB) *MilkRepo {
	return &MilkRepo{db: db}
}

func (r *MilkRepo) Create(ctx context.Context, e milk.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO milk_entries (
			id, animal_id, liters, date, session, recorded_at, fat_percentage, quality
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.AnimalID,
		e.Liters,
		e.Date,
		string(e.Session),
		e.RecordedAt,
		e.FatPercentage,
		e.Quality,
	)
	return err
}

func (r *MilkRepo) GetByID(ctx context.Context, id string) (milk.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return milk.Entry{}, milk.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, animal_id, liters, date, session, recorded_at, fat_percentage, quality
		FROM milk_entries
		WHERE id = $1
	`, id)

	var e milk.Entry
	var session string
	var fat sql.NullFloat64
	var quality sql.NullString
	if err := row.Scan(&e.ID, &e.AnimalID, &e.Liters, &e.Date, &session, &e.RecordedAt, &fat, &quality); err != nil {
		if err == sql.ErrNoRows {
			return milk.Entry{}, milk.ErrNotFound
		}
		return milk.Entry{}, err
	}

	e.Session = milk.Session(session)
	if fat.Valid {
		e.FatPercentage = &fat.Float64
	}
	if quality.Valid {
		e.Quality = &quality.String
	}
	return e, nil
}

func (r *MilkRepo) Update(ctx context.Context, e milk.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE milk_entries SET
			animal_id = $2,
			liters = $3,
			date = $4,
			session = $5,
			recorded_at = $6,
			fat_percentage = $7,
			quality = $8
		WHERE id = $1
	`,
		e.ID,
		e.AnimalID,
		e.Liters,
		e.Date,
		string(e.Session),
		e.RecordedAt,
		e.FatPercentage,
		e.Quality,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return milk.ErrNotFound
	}
	return nil
}

func (r *MilkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM milk_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return milk.ErrNotFound
	}
	return nil
}

func (r *MilkRepo) List(ctx context.Context, farmID string, f milk.ListFilter) ([]milk.EntryWithAnimal, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			m.id, m.animal_id, m.liters, m.date, m.session, m.recorded_at,
			m.fat_percentage, m.quality,
			a.tag_id, a.species
		FROM milk_entries m
		JOIN animals a ON a.id = m.animal_id
		WHERE a.farm_id = $1
	`)

	args := []any{farmID}
	argN := 2

	if f.AnimalID != "" {
		sb.WriteString(fmt.Sprintf(" AND m.animal_id = $%d", argN))
		args = append(args, f.AnimalID)
		argN++
	}
	if f.Session != "" {
		sb.WriteString(fmt.Sprintf(" AND m.session = $%d", argN))
		args = append(args, string(f.Session))
		argN++
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND m.date >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND m.date <= $%d", argN))
		args = append(args, *f.To)
		argN++
	}

	sb.WriteString(" ORDER BY m.recorded_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]milk.EntryWithAnimal, 0)
	for rows.Next() {
		var e milk.EntryWithAnimal
		var session string
		var fat sql.NullFloat64
		var quality sql.NullString

		if err := rows.Scan(
			&e.ID,
			&e.AnimalID,
			&e.Liters,
			&e.Date,
			&session,
			&e.RecordedAt,
			&fat,
			&quality,
			&e.AnimalTagID,
			&e.AnimalSpecies,
		); err != nil {
			return nil, err
		}

		e.Session = milk.Session(session)
		if fat.Valid {
			e.FatPercentage = &fat.Float64
		}
		if quality.Valid {
			e.Quality = &quality.String
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *MilkRepo) ListForStats(ctx context.Context, farmID string, f milk.StatsFilter) ([]milk.StatsRow, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT m.animal_id, a.tag_id, a.species, a.breed, m.liters, m.date
		FROM milk_entries m
		JOIN animals a ON a.id = m.animal_id
		WHERE a.farm_id = $1
	`)

	args := []any{farmID}
	argN := 2

	if f.Species != "" {
		sb.WriteString(fmt.Sprintf(" AND a.species = $%d", argN))
		args = append(args, f.Species)
		argN++
	}
	if f.Breed != "" {
		sb.WriteString(fmt.Sprintf(" AND a.breed = $%d", argN))
		args = append(args, f.Breed)
		argN++
	}
	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND a.status = $%d", argN))
		args = append(args, f.Status)
		argN++
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND m.date >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND m.date <= $%d", argN))
		args = append(args, *f.To)
		argN++
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]milk.StatsRow, 0)
	for rows.Next() {
		var row milk.StatsRow
		if err := rows.Scan(&row.AnimalID, &row.TagID, &row.Species, &row.Breed, &row.Liters, &row.Date); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
