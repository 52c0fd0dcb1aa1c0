package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_api/internal/database"
	"blog_api/internal/models"
	"blog_api/internal/testutil"
)

func errDuplicateFromDB() error {
	return database.HandlePgError(&pgconn.PgError{Code: "23505"})
}

func newPostFixture(t *testing.T) (*PostService, *UserService, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	return NewPostService(store.Posts(), store.Users()), NewUserService(store.Users(), store.Posts()), store
}

func TestCreatePost(t *testing.T) {
	posts, users, _ := newPostFixture(t)
	ctx := context.Background()
	author := createUser(t, users, "Bret", "bret@x.com", "C")

	post, err := posts.CreatePost(ctx, CreatePostRequest{Title: "Hello", Body: "World", UserID: NumericID(author.ID)})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, author.ID, post.UserID)

	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	require.NotNil(t, got.User)
	assert.Equal(t, "Bret", got.User.Username)
}

func TestCreatePostUnknownUser(t *testing.T) {
	posts, _, store := newPostFixture(t)
	ctx := context.Background()

	_, err := posts.CreatePost(ctx, CreatePostRequest{Title: "t", Body: "b", UserID: 99})
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, KindInvalidReference, KindOf(err))
	assert.Zero(t, store.PostCount())
}

type existsAlways struct{}

func (existsAlways) Exists(context.Context, int) (bool, error) { return true, nil }

func TestCreatePostMapsForeignKeyViolation(t *testing.T) {
	store := testutil.NewStore()
	posts := NewPostService(store.Posts(), existsAlways{})

	_, err := posts.CreatePost(context.Background(), CreatePostRequest{Title: "t", Body: "b", UserID: 5})
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.ErrorIs(t, err, database.ErrForeignKey)
}

func TestCreatePostValidation(t *testing.T) {
	posts, _, _ := newPostFixture(t)

	_, err := posts.CreatePost(context.Background(), CreatePostRequest{Body: "b", UserID: 1})
	require.Error(t, err)
	assert.Equal(t, `"title" is required`, err.Error())
}

func TestListPosts(t *testing.T) {
	posts, users, _ := newPostFixture(t)
	ctx := context.Background()
	a := createUser(t, users, "Bret", "bret@x.com", "C")
	b := createUser(t, users, "Antonette", "ant@x.com", "C")

	for i, title := range []string{"FooBar", "barfoo", "Other"} {
		author := a
		if i == 2 {
			author = b
		}
		_, err := posts.CreatePost(ctx, CreatePostRequest{Title: title, Body: fmt.Sprint(i), UserID: NumericID(author.ID)})
		require.NoError(t, err)
	}

	page, err := posts.ListPosts(ctx, models.PostFilter{Title: "foo"}, models.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "FooBar", page.Posts[0].Title)
	require.NotNil(t, page.Posts[0].User)

	page, err = posts.ListPosts(ctx, models.PostFilter{UserID: &b.ID}, models.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Other", page.Posts[0].Title)

	page, err = posts.ListPosts(ctx, models.PostFilter{}, models.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Posts, 1)

	_, err = posts.ListPosts(ctx, models.PostFilter{}, models.Pagination{Page: 0, Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = posts.ListPosts(ctx, models.PostFilter{}, models.Pagination{Page: 1 << 62, Limit: 3})
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	_, err = posts.ListPosts(ctx, models.PostFilter{}, models.Pagination{Page: 1, Limit: models.MaxLimit + 1})
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestMergePostLeavesOtherFields(t *testing.T) {
	posts, users, _ := newPostFixture(t)
	ctx := context.Background()
	author := createUser(t, users, "Bret", "bret@x.com", "C")
	post, err := posts.CreatePost(ctx, CreatePostRequest{Title: "old", Body: "body", UserID: NumericID(author.ID)})
	require.NoError(t, err)

	got, err := posts.MergePost(ctx, post.ID, MergePostRequest{Title: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "body", got.Body)

	_, err = posts.MergePost(ctx, 999, MergePostRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReplacePost(t *testing.T) {
	posts, users, _ := newPostFixture(t)
	ctx := context.Background()
	author := createUser(t, users, "Bret", "bret@x.com", "C")
	post, err := posts.CreatePost(ctx, CreatePostRequest{Title: "old", Body: "body", UserID: NumericID(author.ID)})
	require.NoError(t, err)

	_, err = posts.ReplacePost(ctx, post.ID, ReplacePostRequest{Title: "only title"})
	require.Error(t, err)
	assert.Equal(t, `"body" is required`, err.Error())

	got, err := posts.ReplacePost(ctx, post.ID, ReplacePostRequest{Title: "t2", Body: "b2"})
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, "b2", got.Body)
}

func TestDeletePost(t *testing.T) {
	posts, users, _ := newPostFixture(t)
	ctx := context.Background()
	author := createUser(t, users, "Bret", "bret@x.com", "C")
	post, err := posts.CreatePost(ctx, CreatePostRequest{Title: "t", Body: "b", UserID: NumericID(author.ID)})
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, posts.DeletePost(ctx, post.ID), ErrPostNotFound)

	_, err = posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
