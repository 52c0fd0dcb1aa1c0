// Package testutil provides in-memory repositories for service and HTTP
// tests. They follow the same error contract as the pgx repositories.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blog_api/internal/database"
	"blog_api/internal/models"
)

// Store holds users and posts in memory. Users and Posts expose it through
// the repository interfaces.
type Store struct {
	mu sync.Mutex

	users  map[int]models.User
	posts  map[int]models.Post
	nextID map[string]int

	nextErr map[string]error
}

func NewStore() *Store {
	return &Store{
		users:   make(map[int]models.User),
		posts:   make(map[int]models.Post),
		nextID:  make(map[string]int),
		nextErr: make(map[string]error),
	}
}

// SetErr makes the next call to op fail with err. op is "<Repo>.<Method>",
// for example "Users.Create".
func (s *Store) SetErr(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr[op] = err
}

func (s *Store) takeErr(op string) error {
	if err, ok := s.nextErr[op]; ok {
		delete(s.nextErr, op)
		return err
	}
	return nil
}

func (s *Store) id(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

// PostCount is a test helper for asserting cascades.
func (s *Store) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func containsFold(value, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func paginate[T any](items []T, page models.Pagination) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end < start || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// cloneUser deep-copies the nested records so callers never share memory
// with the store.
func cloneUser(u models.User) models.User {
	if u.Address != nil {
		a := *u.Address
		if a.Geo != nil {
			g := *a.Geo
			a.Geo = &g
		}
		u.Address = &a
	}
	if u.Company != nil {
		c := *u.Company
		u.Company = &c
	}
	return u
}

func scalarsOnly(u models.User) models.User {
	u.Address = nil
	u.Company = nil
	return u
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) matching(filter models.UserFilter) []models.User {
	var out []models.User
	for _, u := range r.s.users {
		city := ""
		if u.Address != nil {
			city = u.Address.City
		}
		if containsFold(u.Username, filter.Username) && containsFold(u.Email, filter.Email) && containsFold(city, filter.City) {
			out = append(out, scalarsOnly(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *UserRepository) List(_ context.Context, filter models.UserFilter, page models.Pagination) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.List"); err != nil {
		return nil, err
	}
	return paginate(r.matching(filter), page), nil
}

func (r *UserRepository) Count(_ context.Context, filter models.UserFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.Count"); err != nil {
		return 0, err
	}
	return len(r.matching(filter)), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.FindByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) FindConflicting(_ context.Context, username, email *string, excludeID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.FindConflicting"); err != nil {
		return false, err
	}
	return r.conflicts(username, email, excludeID), nil
}

func (r *UserRepository) conflicts(username, email *string, excludeID int) bool {
	for id, u := range r.s.users {
		if id == excludeID {
			continue
		}
		if (username != nil && u.Username == *username) || (email != nil && u.Email == *email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Exists(_ context.Context, id int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.Exists"); err != nil {
		return false, err
	}
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.Create"); err != nil {
		return err
	}

	user.Prepare()
	if r.conflicts(&user.Username, &user.Email, 0) {
		return database.ErrDuplicate
	}

	user.ID = r.s.id("users")
	if a := user.Address; a != nil {
		a.ID = r.s.id("addresses")
		a.UserID = user.ID
		if g := a.Geo; g != nil {
			g.ID = r.s.id("geos")
			g.AddressID = a.ID
		}
	}
	if c := user.Company; c != nil {
		c.ID = r.s.id("companies")
		c.UserID = user.ID
	}

	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepository) Update(_ context.Context, id int, changes models.UserChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.Update"); err != nil {
		return err
	}

	u, ok := r.s.users[id]
	if !ok {
		return database.ErrNotFound
	}
	if r.conflicts(changes.Username, changes.Email, id) {
		return database.ErrDuplicate
	}

	u = cloneUser(u)
	changes.Apply(&u)
	if u.Address != nil && u.Address.ID == 0 {
		u.Address.ID = r.s.id("addresses")
	}
	if a := u.Address; a != nil && a.Geo != nil && a.Geo.ID == 0 {
		a.Geo.ID = r.s.id("geos")
		a.Geo.AddressID = a.ID
	}
	if u.Company != nil && u.Company.ID == 0 {
		u.Company.ID = r.s.id("companies")
	}

	r.s.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Users.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.users[id]; !ok {
		return database.ErrNotFound
	}
	for pid, p := range r.s.posts {
		if p.UserID == id {
			delete(r.s.posts, pid)
		}
	}
	delete(r.s.users, id)
	return nil
}

type PostRepository struct {
	s *Store
}

func (r *PostRepository) withUser(p models.Post) models.Post {
	if u, ok := r.s.users[p.UserID]; ok {
		author := scalarsOnly(u)
		p.User = &author
	}
	return p
}

func (r *PostRepository) matching(filter models.PostFilter) []models.Post {
	var out []models.Post
	for _, p := range r.s.posts {
		if !containsFold(p.Title, filter.Title) {
			continue
		}
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PostRepository) List(_ context.Context, filter models.PostFilter, page models.Pagination) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.List"); err != nil {
		return nil, err
	}
	out := paginate(r.matching(filter), page)
	for i := range out {
		out[i] = r.withUser(out[i])
	}
	return out, nil
}

func (r *PostRepository) Count(_ context.Context, filter models.PostFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.Count"); err != nil {
		return 0, err
	}
	return len(r.matching(filter)), nil
}

func (r *PostRepository) FindByID(_ context.Context, id int) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	out := r.withUser(p)
	return &out, nil
}

func (r *PostRepository) FindByUserID(_ context.Context, userID int) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.FindByUserID"); err != nil {
		return nil, err
	}
	return r.matching(models.PostFilter{UserID: &userID}), nil
}

func (r *PostRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.Create"); err != nil {
		return err
	}
	if _, ok := r.s.users[post.UserID]; !ok {
		return database.ErrForeignKey
	}
	post.ID = r.s.id("posts")
	stored := *post
	stored.User = nil
	r.s.posts[post.ID] = stored
	return nil
}

func (r *PostRepository) Update(_ context.Context, id int, changes models.PostChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.Update"); err != nil {
		return err
	}
	p, ok := r.s.posts[id]
	if !ok {
		return database.ErrNotFound
	}
	changes.Apply(&p)
	r.s.posts[id] = p
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("Posts.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.posts[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}
