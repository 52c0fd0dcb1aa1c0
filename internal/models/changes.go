package models

// UserChanges is a sparse set of column updates. A nil pointer leaves the
// stored value untouched.
type UserChanges struct {
	Name     *string
	Username *string
	Email    *string
	Phone    *string
	Website  *string

	Address *AddressChanges
	Company *CompanyChanges
}

type AddressChanges struct {
	Street  *string
	Suite   *string
	City    *string
	Zipcode *string

	// Geo is upserted: created when the address has none yet.
	Geo *GeoChanges
}

type GeoChanges struct {
	Lat *string
	Lng *string
}

type CompanyChanges struct {
	Name        *string
	CatchPhrase *string
	Bs          *string
}

type PostChanges struct {
	Title *string
	Body  *string
}

// Apply copies the non-nil changes onto u, nested records included.
func (c UserChanges) Apply(u *User) {
	setString(&u.Name, c.Name)
	setString(&u.Username, c.Username)
	setString(&u.Email, c.Email)
	setString(&u.Phone, c.Phone)
	setString(&u.Website, c.Website)

	if c.Address != nil {
		if u.Address == nil {
			u.Address = &Address{UserID: u.ID}
		}
		c.Address.Apply(u.Address)
	}
	if c.Company != nil {
		if u.Company == nil {
			u.Company = &Company{UserID: u.ID}
		}
		setString(&u.Company.Name, c.Company.Name)
		setString(&u.Company.CatchPhrase, c.Company.CatchPhrase)
		setString(&u.Company.Bs, c.Company.Bs)
	}
}

func (c AddressChanges) Apply(a *Address) {
	setString(&a.Street, c.Street)
	setString(&a.Suite, c.Suite)
	setString(&a.City, c.City)
	setString(&a.Zipcode, c.Zipcode)

	if c.Geo != nil {
		if a.Geo == nil {
			a.Geo = &Geo{AddressID: a.ID}
		}
		setString(&a.Geo.Lat, c.Geo.Lat)
		setString(&a.Geo.Lng, c.Geo.Lng)
	}
}

func (c PostChanges) Apply(p *Post) {
	setString(&p.Title, c.Title)
	setString(&p.Body, c.Body)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
