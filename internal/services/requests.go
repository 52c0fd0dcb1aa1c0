package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"blog_api/internal/models"
)

type GeoInput struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type AddressInput struct {
	Street  string    `json:"street"`
	Suite   string    `json:"suite"`
	City    string    `json:"city"`
	Zipcode string    `json:"zipcode"`
	Geo     *GeoInput `json:"geo"`
}

type CompanyInput struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	Bs          string `json:"bs"`
}

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Name     string        `json:"name" validate:"required"`
	Username string        `json:"username" validate:"required,min=3,max=30"`
	Email    string        `json:"email" validate:"required,email"`
	Phone    string        `json:"phone"`
	Website  string        `json:"website"`
	Address  *AddressInput `json:"address" validate:"required"`
	Company  *CompanyInput `json:"company" validate:"required"`
}

// prepare trims the identifying fields so validation sees the values that
// will be stored.
func (r *CreateUserRequest) prepare() {
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

func (r CreateUserRequest) toModel() *models.User {
	user := &models.User{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
	}
	if a := r.Address; a != nil {
		user.Address = &models.Address{Street: a.Street, Suite: a.Suite, City: a.City, Zipcode: a.Zipcode}
		if g := a.Geo; g != nil {
			user.Address.Geo = &models.Geo{Lat: g.Lat, Lng: g.Lng}
		}
	}
	if c := r.Company; c != nil {
		user.Company = &models.Company{Name: c.Name, CatchPhrase: c.CatchPhrase, Bs: c.Bs}
	}
	return user
}

type GeoPatch struct {
	Lat *string `json:"lat"`
	Lng *string `json:"lng"`
}

type AddressPatch struct {
	Street  *string   `json:"street"`
	Suite   *string   `json:"suite"`
	City    *string   `json:"city"`
	Zipcode *string   `json:"zipcode"`
	Geo     *GeoPatch `json:"geo"`
}

type CompanyPatch struct {
	Name        *string `json:"name"`
	CatchPhrase *string `json:"catchPhrase"`
	Bs          *string `json:"bs"`
}

func (p *AddressPatch) changes() *models.AddressChanges {
	if p == nil {
		return nil
	}
	c := &models.AddressChanges{Street: p.Street, Suite: p.Suite, City: p.City, Zipcode: p.Zipcode}
	if p.Geo != nil {
		c.Geo = &models.GeoChanges{Lat: p.Geo.Lat, Lng: p.Geo.Lng}
	}
	return c
}

func (p *CompanyPatch) changes() *models.CompanyChanges {
	if p == nil {
		return nil
	}
	return &models.CompanyChanges{Name: p.Name, CatchPhrase: p.CatchPhrase, Bs: p.Bs}
}

// ReplaceUserRequest is the PUT /users/:id payload. All scalars are
// required; nested objects are merged field by field when present.
type ReplaceUserRequest struct {
	Name     string        `json:"name" validate:"required"`
	Username string        `json:"username" validate:"required,min=3,max=30"`
	Email    string        `json:"email" validate:"required,email"`
	Phone    string        `json:"phone" validate:"required"`
	Website  string        `json:"website" validate:"required"`
	Address  *AddressPatch `json:"address"`
	Company  *CompanyPatch `json:"company"`
}

func (r *ReplaceUserRequest) prepare() {
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

func (r ReplaceUserRequest) changes() models.UserChanges {
	return models.UserChanges{
		Name:     &r.Name,
		Username: &r.Username,
		Email:    &r.Email,
		Phone:    &r.Phone,
		Website:  &r.Website,
		Address:  r.Address.changes(),
		Company:  r.Company.changes(),
	}
}

// MergeUserRequest is the PATCH /users/:id payload; absent fields are left
// untouched.
type MergeUserRequest struct {
	Name     *string       `json:"name"`
	Username *string       `json:"username"`
	Email    *string       `json:"email"`
	Phone    *string       `json:"phone"`
	Website  *string       `json:"website"`
	Address  *AddressPatch `json:"address"`
	Company  *CompanyPatch `json:"company"`
}

// prepare trims whichever identifying fields are present.
func (r *MergeUserRequest) prepare() {
	for _, f := range []*string{r.Name, r.Username, r.Email} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r MergeUserRequest) changes() models.UserChanges {
	return models.UserChanges{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
		Website:  r.Website,
		Address:  r.Address.changes(),
		Company:  r.Company.changes(),
	}
}

// NumericID accepts either a JSON number or a string holding an integer
// that fits an int4 key.
type NumericID int

func (n *NumericID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*n = NumericID(v)
	return nil
}

type CreatePostRequest struct {
	Title  string    `json:"title" validate:"required"`
	Body   string    `json:"body" validate:"required"`
	UserID NumericID `json:"userId" validate:"required,min=1"`
}

// ReplacePostRequest is the PUT /posts/:id payload.
type ReplacePostRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type MergePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}
