package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog_api/internal/database"
	"blog_api/internal/models"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postWithUserColumns = `p.id, p.title, p.body, p.user_id,
	u.id, u.name, u.username, u.email, u.phone, u.website`

func postWhere(filter models.PostFilter) *whereBuilder {
	w := &whereBuilder{}
	w.contains("p.title", filter.Title)
	if filter.UserID != nil {
		w.equals("p.user_id", *filter.UserID)
	}
	return w
}

func scanPostWithUser(row pgx.Row) (models.Post, error) {
	var p models.Post
	var u models.User
	err := row.Scan(
		&p.ID, &p.Title, &p.Body, &p.UserID,
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Website,
	)
	if err != nil {
		return models.Post{}, err
	}
	p.User = &u
	return p, nil
}

// List returns one page of posts with their authors embedded.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter, page models.Pagination) ([]models.Post, error) {
	w := postWhere(filter)
	query := `SELECT ` + postWithUserColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id` + w.String() + `
		ORDER BY p.id
		LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset())

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Post, error) {
		return scanPostWithUser(row)
	})
}

func (r *PostRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	w := postWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+w.String(), w.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FindByID returns nil, nil when the post does not exist.
func (r *PostRepository) FindByID(ctx context.Context, id int) (*models.Post, error) {
	query := `SELECT ` + postWithUserColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`

	post, err := scanPostWithUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindByUserID(ctx context.Context, userID int) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, body, user_id
		FROM posts
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Post])
}

// Create returns database.ErrForeignKey when post.UserID does not exist.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, body, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		post.Title, post.Body, post.UserID,
	).Scan(&post.ID)

	return database.HandlePgError(err)
}

// Update returns database.ErrNotFound when the post does not exist.
func (r *PostRepository) Update(ctx context.Context, id int, changes models.PostChanges) error {
	var set setBuilder
	set.add("title", changes.Title)
	set.add("body", changes.Body)

	if set.empty() {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return database.ErrNotFound
		}
		return nil
	}

	query, args := set.build("posts", "id", id)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return database.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete returns database.ErrNotFound when the post does not exist.
func (r *PostRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return database.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
