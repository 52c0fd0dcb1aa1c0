package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_api/internal/logging"
	"blog_api/internal/models"
	"blog_api/internal/services"
	"blog_api/internal/testutil"
)

func newServices(store *testutil.Store) (*services.UserService, *services.PostService) {
	return services.NewUserService(store.Users(), store.Posts()),
		services.NewPostService(store.Posts(), store.Users())
}

func TestRunInsertsFixtures(t *testing.T) {
	store := testutil.NewStore()
	users, posts := newServices(store)

	res, err := Run(context.Background(), users, posts, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Posts: 2}, res)
	assert.Equal(t, 2, store.PostCount())

	page, err := users.ListUsers(context.Background(), models.UserFilter{City: "gwen"}, models.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "Bret", page.Users[0].Username)

	bret, err := users.GetUser(context.Background(), page.Users[0].ID)
	require.NoError(t, err)
	require.NotNil(t, bret.Address)
	require.NotNil(t, bret.Address.Geo)
	assert.Equal(t, "81.1496", bret.Address.Geo.Lng)
	require.NotNil(t, bret.Company)
	assert.Equal(t, "Romaguera-Crona", bret.Company.Name)
}

func TestRunIsRepeatable(t *testing.T) {
	store := testutil.NewStore()
	users, posts := newServices(store)

	_, err := Run(context.Background(), users, posts, logging.Discard())
	require.NoError(t, err)

	res, err := Run(context.Background(), users, posts, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res)
	assert.Equal(t, 2, store.PostCount())
}

func TestRunStopsOnStoreFailure(t *testing.T) {
	store := testutil.NewStore()
	users, posts := newServices(store)
	store.SetErr("Posts.Create", errors.New("connection reset"))

	res, err := Run(context.Background(), users, posts, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed post")
	assert.Equal(t, 1, res.Users)
	assert.Zero(t, res.Posts)
}
