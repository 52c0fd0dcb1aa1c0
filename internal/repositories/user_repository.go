package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog_api/internal/database"
	"blog_api/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `u.id, u.name, u.username, u.email, u.phone, u.website`

func userWhere(filter models.UserFilter) *whereBuilder {
	w := &whereBuilder{}
	w.contains("u.username", filter.Username)
	w.contains("u.email", filter.Email)
	w.contains("a.city", filter.City)
	return w
}

// List returns one page of users, scalars only, ordered by id.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter, page models.Pagination) ([]models.User, error) {
	w := userWhere(filter)
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN addresses a ON a.user_id = u.id` + w.String() + `
		ORDER BY u.id
		LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset())

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
}

// Count applies the same filters as List.
func (r *UserRepository) Count(ctx context.Context, filter models.UserFilter) (int, error) {
	w := userWhere(filter)
	query := `SELECT COUNT(*)
		FROM users u
		LEFT JOIN addresses a ON a.user_id = u.id` + w.String()

	var total int
	if err := r.pool.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FindByID loads a user with address, geo and company. It returns nil, nil
// when no user has that id.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + `,
			a.id, a.street, a.suite, a.city, a.zipcode,
			g.id, g.lat, g.lng,
			c.id, c.name, c.catch_phrase, c.bs
		FROM users u
		LEFT JOIN addresses a ON a.user_id = u.id
		LEFT JOIN geos g ON g.address_id = a.id
		LEFT JOIN companies c ON c.user_id = u.id
		WHERE u.id = $1`

	var (
		user                         models.User
		addressID, geoID, companyID  *int
		street, suite, city, zipcode *string
		lat, lng                     *string
		companyName, catchPhrase, bs *string
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Username, &user.Email, &user.Phone, &user.Website,
		&addressID, &street, &suite, &city, &zipcode,
		&geoID, &lat, &lng,
		&companyID, &companyName, &catchPhrase, &bs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if addressID != nil {
		user.Address = &models.Address{
			ID:      *addressID,
			Street:  deref(street),
			Suite:   deref(suite),
			City:    deref(city),
			Zipcode: deref(zipcode),
			UserID:  user.ID,
		}
		if geoID != nil {
			user.Address.Geo = &models.Geo{
				ID:        *geoID,
				Lat:       deref(lat),
				Lng:       deref(lng),
				AddressID: *addressID,
			}
		}
	}
	if companyID != nil {
		user.Company = &models.Company{
			ID:          *companyID,
			Name:        deref(companyName),
			CatchPhrase: deref(catchPhrase),
			Bs:          deref(bs),
			UserID:      user.ID,
		}
	}

	return &user, nil
}

// FindConflicting reports whether a user other than excludeID already uses
// username or email. Nil values never match.
func (r *UserRepository) FindConflicting(ctx context.Context, username, email *string, excludeID int) (bool, error) {
	if username == nil && email == nil {
		return false, nil
	}

	query := `SELECT EXISTS(
		SELECT 1 FROM users
		WHERE (username = $1 OR email = $2) AND id <> $3
	)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Create inserts the user and its nested records in one transaction and
// fills in the generated ids.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Prepare()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, username, email, phone, website)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			user.Name, user.Username, user.Email, user.Phone, user.Website,
		).Scan(&user.ID)
		if err != nil {
			return err
		}

		if a := user.Address; a != nil {
			a.UserID = user.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO addresses (street, suite, city, zipcode, user_id)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`,
				a.Street, a.Suite, a.City, a.Zipcode, a.UserID,
			).Scan(&a.ID)
			if err != nil {
				return err
			}

			if g := a.Geo; g != nil {
				g.AddressID = a.ID
				err := tx.QueryRow(ctx, `
					INSERT INTO geos (lat, lng, address_id)
					VALUES ($1, $2, $3)
					RETURNING id`,
					g.Lat, g.Lng, g.AddressID,
				).Scan(&g.ID)
				if err != nil {
					return err
				}
			}
		}

		if c := user.Company; c != nil {
			c.UserID = user.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO companies (name, catch_phrase, bs, user_id)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				c.Name, c.CatchPhrase, c.Bs, c.UserID,
			).Scan(&c.ID)
			if err != nil {
				return err
			}
		}

		return nil
	})

	return database.HandlePgError(err)
}

// Update applies the sparse changes in one transaction. Nested address,
// geo and company rows are upserted. Returns database.ErrNotFound when the
// user does not exist.
func (r *UserRepository) Update(ctx context.Context, id int, changes models.UserChanges) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var set setBuilder
		set.add("name", changes.Name)
		set.add("username", changes.Username)
		set.add("email", changes.Email)
		set.add("phone", changes.Phone)
		set.add("website", changes.Website)

		if set.empty() {
			var locked int
			if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
				return err
			}
		} else {
			query, args := set.build("users", "id", id)
			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return database.ErrNotFound
			}
		}

		if a := changes.Address; a != nil {
			var addressID int
			err := tx.QueryRow(ctx, `
				INSERT INTO addresses (user_id, street, suite, city, zipcode)
				VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''), COALESCE($5::text, ''))
				ON CONFLICT (user_id) DO UPDATE SET
					street = COALESCE($2::text, addresses.street),
					suite = COALESCE($3::text, addresses.suite),
					city = COALESCE($4::text, addresses.city),
					zipcode = COALESCE($5::text, addresses.zipcode)
				RETURNING id`,
				id, a.Street, a.Suite, a.City, a.Zipcode,
			).Scan(&addressID)
			if err != nil {
				return err
			}

			if g := a.Geo; g != nil {
				_, err := tx.Exec(ctx, `
					INSERT INTO geos (address_id, lat, lng)
					VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''))
					ON CONFLICT (address_id) DO UPDATE SET
						lat = COALESCE($2::text, geos.lat),
						lng = COALESCE($3::text, geos.lng)`,
					addressID, g.Lat, g.Lng,
				)
				if err != nil {
					return err
				}
			}
		}

		if c := changes.Company; c != nil {
			_, err := tx.Exec(ctx, `
				INSERT INTO companies (user_id, name, catch_phrase, bs)
				VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''))
				ON CONFLICT (user_id) DO UPDATE SET
					name = COALESCE($2::text, companies.name),
					catch_phrase = COALESCE($3::text, companies.catch_phrase),
					bs = COALESCE($4::text, companies.bs)`,
				id, c.Name, c.CatchPhrase, c.Bs,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})

	return database.HandlePgError(err)
}

// Delete removes the user and everything that references it, children
// first, in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		steps := []string{
			`DELETE FROM geos WHERE address_id IN (SELECT id FROM addresses WHERE user_id = $1)`,
			`DELETE FROM addresses WHERE user_id = $1`,
			`DELETE FROM companies WHERE user_id = $1`,
			`DELETE FROM posts WHERE user_id = $1`,
		}
		for _, step := range steps {
			if _, err := tx.Exec(ctx, step, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return database.ErrNotFound
		}
		return nil
	})

	return database.HandlePgError(err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
