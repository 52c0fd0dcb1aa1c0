package services

import (
	"context"
	"errors"
	"fmt"

	"blog_api/internal/database"
	"blog_api/internal/models"
)

type PostService struct {
	posts PostRepository
	users UserLookup
}

func NewPostService(posts PostRepository, users UserLookup) *PostService {
	return &PostService{posts: posts, users: users}
}

type PostPage struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
}

func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter, page models.Pagination) (*PostPage, error) {
	if err := checkPagination(page); err != nil {
		return nil, err
	}

	posts, err := s.posts.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	if posts == nil {
		posts = []models.Post{}
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// CreatePost stores a post for an existing user. A missing author is
// reported as ErrUnknownUser, whether caught up front or by the foreign key.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	userID := int(req.UserID)
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	post := &models.Post{Title: req.Title, Body: req.Body, UserID: userID}
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, database.ErrForeignKey) {
			return nil, withCause(ErrUnknownUser, err)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// ReplacePost sets both title and body.
func (s *PostService) ReplacePost(ctx context.Context, id int, req ReplacePostRequest) (*models.Post, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, models.PostChanges{Title: &req.Title, Body: &req.Body})
}

// MergePost sets only the fields present in req.
func (s *PostService) MergePost(ctx context.Context, id int, req MergePostRequest) (*models.Post, error) {
	return s.update(ctx, id, models.PostChanges{Title: req.Title, Body: req.Body})
}

func (s *PostService) update(ctx context.Context, id int, changes models.PostChanges) (*models.Post, error) {
	if err := s.posts.Update(ctx, id, changes); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return s.GetPost(ctx, id)
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
