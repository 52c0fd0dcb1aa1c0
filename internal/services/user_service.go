package services

import (
	"context"
	"errors"
	"fmt"

	"blog_api/internal/database"
	"blog_api/internal/models"
)

type UserService struct {
	users UserRepository
	posts PostRepository
}

func NewUserService(users UserRepository, posts PostRepository) *UserService {
	return &UserService{users: users, posts: posts}
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ListUsers returns one page of users matching filter. Total counts the
// whole filtered set, not just the page.
func (s *UserService) ListUsers(ctx context.Context, filter models.UserFilter, page models.Pagination) (*UserPage, error) {
	if err := checkPagination(page); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	if users == nil {
		users = []models.User{}
	}
	return &UserPage{Users: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateUser validates req, rejects duplicate usernames or emails, and
// stores the user with its address, geo and company.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.prepare()
	if err := Validate(req); err != nil {
		return nil, err
	}

	user := req.toModel()
	user.Prepare()

	if err := s.checkConflict(ctx, &user.Username, &user.Email, 0); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, withCause(ErrDuplicateUser, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ReplaceUser overwrites every scalar field of the user and merges the
// nested records that are present in req.
func (s *UserService) ReplaceUser(ctx context.Context, id int, req ReplaceUserRequest) (*models.User, error) {
	req.prepare()
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, req.changes())
}

// MergeUser applies only the fields present in req.
func (s *UserService) MergeUser(ctx context.Context, id int, req MergeUserRequest) (*models.User, error) {
	req.prepare()
	return s.update(ctx, id, req.changes())
}

func (s *UserService) update(ctx context.Context, id int, changes models.UserChanges) (*models.User, error) {
	if err := s.checkConflict(ctx, changes.Username, changes.Email, id); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, id, changes); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, database.ErrDuplicate):
			return nil, withCause(ErrDuplicateUser, err)
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	return s.GetUser(ctx, id)
}

func (s *UserService) checkConflict(ctx context.Context, username, email *string, excludeID int) error {
	conflict, err := s.users.FindConflicting(ctx, username, email, excludeID)
	if err != nil {
		return fmt.Errorf("check duplicate user: %w", err)
	}
	if conflict {
		return ErrDuplicateUser
	}
	return nil
}

// DeleteUser removes the user together with its address, geo, company and
// posts.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// ListUserPosts returns every post written by the user. An unknown user
// simply has no posts.
func (s *UserService) ListUserPosts(ctx context.Context, id int) ([]models.Post, error) {
	posts, err := s.posts.FindByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", id, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
