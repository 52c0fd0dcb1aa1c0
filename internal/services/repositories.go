package services

import (
	"context"

	"blog_api/internal/models"
)

// UserRepository is the persistence contract the user operations depend on.
// Implementations return database.ErrNotFound from Update and Delete for
// unknown ids, database.ErrDuplicate on unique violations, and nil, nil
// from FindByID when nothing matches.
type UserRepository interface {
	List(ctx context.Context, filter models.UserFilter, page models.Pagination) ([]models.User, error)
	Count(ctx context.Context, filter models.UserFilter) (int, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindConflicting(ctx context.Context, username, email *string, excludeID int) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id int, changes models.UserChanges) error
	Delete(ctx context.Context, id int) error
}

type PostRepository interface {
	List(ctx context.Context, filter models.PostFilter, page models.Pagination) ([]models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int, error)
	FindByID(ctx context.Context, id int) (*models.Post, error)
	FindByUserID(ctx context.Context, userID int) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id int, changes models.PostChanges) error
	Delete(ctx context.Context, id int) error
}

// UserLookup is the slice of UserRepository that post creation needs.
type UserLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}
