package postgres

import (
	"context"
	"database/sql"
	"strings"

	"apnifarm-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, firebase_uid, phone_number, role, plan_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.SubjectID,
		u.PhoneNumber,
		string(u.Role),
		u.PlanID,
		u.CreatedAt,
	)
	if _, ok := uniqueViolation(err); ok {
		// Dos syncs concurrentes del mismo subject: el segundo pierde.
		return users.ErrInvalidInput
	}
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getWhere(ctx, "id = $1", id)
}

func (r *UsersRepo) GetBySubject(ctx context.Context, subjectID string) (users.User, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getWhere(ctx, "firebase_uid = $1", subjectID)
}

func (r *UsersRepo) getWhere(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, firebase_uid, phone_number, role, plan_id, created_at
		FROM users
		WHERE `+where, arg)

	var u users.User
	var role string
	var planID sql.NullString
	if err := row.Scan(&u.ID, &u.SubjectID, &u.PhoneNumber, &role, &planID, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	u.Role = users.Role(role)
	if planID.Valid {
		u.PlanID = &planID.String
	}
	return u, nil
}
