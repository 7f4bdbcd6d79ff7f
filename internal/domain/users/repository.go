package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetBySubject(ctx context.Context, subjectID string) (User, error)
}
