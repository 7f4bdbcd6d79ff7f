package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"apnifarm-api/internal/domain/herd"
)

type HerdRepo struct {
	db *sql.DB
}

func NewHerdRepo(db *sql.DB) *HerdRepo {
	return &HerdRepo{db: db}
}

const animalColumns = `
	id, farm_id, tag_id, sra_id,
	species, breed, gender,
	dob, origin, status,
	purchase_price,
	dam_id, dam_label, sire_label,
	initial_weight,
	created_at, updated_at
`

func (r *HerdRepo) Create(ctx context.Context, a herd.Animal, initialLog *herd.WeightLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		a.ID,
		a.FarmID,
		a.TagID,
		a.SRAID,
		string(a.Species),
		a.Breed,
		string(a.Gender),
		a.DOB,
		string(a.Origin),
		string(a.Status),
		a.PurchasePrice,
		a.DamID,
		a.DamLabel,
		a.SireLabel,
		a.InitialWeight,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return mapAnimalUnique(err)
	}

	if initialLog != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO weight_logs (id, animal_id, weight_kg, date, notes)
			VALUES ($1,$2,$3,$4,$5)
		`,
			initialLog.ID,
			initialLog.AnimalID,
			initialLog.WeightKg,
			initialLog.Date,
			initialLog.Notes,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *HerdRepo) GetByID(ctx context.Context, id string) (herd.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return herd.Animal{}, herd.ErrNotFound
	}
	return r.getWhere(ctx, "id = $1", id)
}

func (r *HerdRepo) GetByTag(ctx context.Context, farmID, tagID string) (herd.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE farm_id = $1 AND tag_id = $2
	`, farmID, tagID)
	return scanAnimal(row)
}

func (r *HerdRepo) GetBySRA(ctx context.Context, sraID string) (herd.Animal, error) {
	return r.getWhere(ctx, "sra_id = $1", sraID)
}

func (r *HerdRepo) SRAExists(ctx context.Context, sraID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM animals WHERE sra_id = $1)
	`, sraID).Scan(&exists)
	return exists, err
}

func (r *HerdRepo) ListByFarm(ctx context.Context, farmID string) ([]herd.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE farm_id = $1
		ORDER BY created_at ASC, tag_id ASC
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnimals(rows)
}

func (r *HerdRepo) Update(ctx context.Context, a herd.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals SET
			tag_id = $2,
			species = $3,
			breed = $4,
			gender = $5,
			dob = $6,
			origin = $7,
			status = $8,
			purchase_price = $9,
			initial_weight = $10,
			updated_at = $11
		WHERE id = $1
	`,
		a.ID,
		a.TagID,
		string(a.Species),
		a.Breed,
		string(a.Gender),
		a.DOB,
		string(a.Origin),
		string(a.Status),
		a.PurchasePrice,
		a.InitialWeight,
		a.UpdatedAt,
	)
	if err != nil {
		return mapAnimalUnique(err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return herd.ErrNotFound
	}
	return nil
}

func (r *HerdRepo) DeleteCascade(ctx context.Context, id string, damLabel string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Crías del animal: se rompe el vínculo y queda el label placeholder.
	if _, err := tx.ExecContext(ctx, `
		UPDATE animals SET dam_id = NULL, dam_label = $2
		WHERE dam_id = $1
	`, id, damLabel); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM weight_logs WHERE animal_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM milk_entries WHERE animal_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return herd.ErrNotFound
	}

	return tx.Commit()
}

func (r *HerdRepo) Tags(ctx context.Context, farmID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag_id FROM animals WHERE farm_id = $1
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *HerdRepo) Search(ctx context.Context, farmID string, f herd.SearchFilter) ([]herd.Animal, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ` + animalColumns + `
		FROM animals
		WHERE farm_id = $1
	`)

	args := []any{farmID}
	argN := 2

	if q := strings.TrimSpace(f.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND tag_id ILIKE $%d", argN))
		args = append(args, "%"+q+"%")
		argN++
	}
	if f.Gender != "" {
		sb.WriteString(fmt.Sprintf(" AND gender = $%d", argN))
		args = append(args, string(f.Gender))
		argN++
	}
	if f.Species != "" {
		sb.WriteString(fmt.Sprintf(" AND species = $%d", argN))
		args = append(args, string(f.Species))
		argN++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	sb.WriteString(" ORDER BY tag_id ASC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnimals(rows)
}

func (r *HerdRepo) ListWeightLogs(ctx context.Context, animalID string) ([]herd.WeightLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, weight_kg, date, notes
		FROM weight_logs
		WHERE animal_id = $1
		ORDER BY date ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]herd.WeightLog, 0)
	for rows.Next() {
		var l herd.WeightLog
		if err := rows.Scan(&l.ID, &l.AnimalID, &l.WeightKg, &l.Date, &l.Notes); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *HerdRepo) getWhere(ctx context.Context, where string, arg any) (herd.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE `+where, arg)
	return scanAnimal(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (herd.Animal, error) {
	var a herd.Animal
	var species, gender, origin, status string
	var dob sql.NullTime
	var price, weight sql.NullFloat64
	var damID sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.FarmID,
		&a.TagID,
		&a.SRAID,
		&species,
		&a.Breed,
		&gender,
		&dob,
		&origin,
		&status,
		&price,
		&damID,
		&a.DamLabel,
		&a.SireLabel,
		&weight,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return herd.Animal{}, herd.ErrNotFound
		}
		return herd.Animal{}, err
	}

	a.Species = herd.Species(species)
	a.Gender = herd.Gender(gender)
	a.Origin = herd.Origin(origin)
	a.Status = herd.Status(status)
	if dob.Valid {
		a.DOB = &dob.Time
	}
	if price.Valid {
		a.PurchasePrice = &price.Float64
	}
	if weight.Valid {
		a.InitialWeight = &weight.Float64
	}
	if damID.Valid {
		a.DamID = &damID.String
	}

	return a, nil
}

func scanAnimals(rows *sql.Rows) ([]herd.Animal, error) {
	out := make([]herd.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// mapAnimalUnique traduce los 23505 de animals a los sentinels del dominio.
func mapAnimalUnique(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "animals_sra_id_key":
		return herd.ErrSRAConflict
	case "animals_farm_tag_key":
		return herd.ErrDuplicateTag
	default:
		return err
	}
}
