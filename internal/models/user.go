package models

import "strings"

// User matches the users table. Address and Company are only populated by
// single-user lookups and creates; list queries return scalars.
type User struct {
	ID       int    `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`
	Website  string `db:"website" json:"website"`

	Address *Address `db:"-" json:"address,omitempty"`
	Company *Company `db:"-" json:"company,omitempty"`
}

type Address struct {
	ID      int    `db:"id" json:"id"`
	Street  string `db:"street" json:"street"`
	Suite   string `db:"suite" json:"suite"`
	City    string `db:"city" json:"city"`
	Zipcode string `db:"zipcode" json:"zipcode"`
	UserID  int    `db:"user_id" json:"userId"`

	Geo *Geo `db:"-" json:"geo,omitempty"`
}

type Geo struct {
	ID        int    `db:"id" json:"id"`
	Lat       string `db:"lat" json:"lat"`
	Lng       string `db:"lng" json:"lng"`
	AddressID int    `db:"address_id" json:"addressId"`
}

type Company struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CatchPhrase string `db:"catch_phrase" json:"catchPhrase"`
	Bs          string `db:"bs" json:"bs"`
	UserID      int    `db:"user_id" json:"userId"`
}

// Prepare trims surrounding whitespace from the identifying fields before
// they are stored.
func (u *User) Prepare() {
	u.Name = strings.TrimSpace(u.Name)
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
}
