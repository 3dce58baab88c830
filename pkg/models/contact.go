package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FirstName string    `bun:",nullzero" json:"first_name"`
	LastName  *string   `json:"last_name,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Notes     *string   `json:"notes,omitempty"`

	Addresses []*ContactAddress `bun:"rel:has-many,join:id=contact_id" json:"addresses,omitempty"`
	Phones    []*ContactPhone   `bun:"rel:has-many,join:id=contact_id" json:"phones,omitempty"`
	Emails    []*ContactEmail   `bun:"rel:has-many,join:id=contact_id" json:"emails,omitempty"`
}

// DisplayName is the label used for progress reporting and duplicate
// detection when transferring contacts.
func (c *Contact) DisplayName() string {
	if c.LastName != nil && *c.LastName != "" {
		return c.FirstName + " " + *c.LastName
	}
	return c.FirstName
}

type ContactAddress struct {
	bun.BaseModel `bun:"table:contact_addresses,alias:ca"`

	ID        int     `bun:",pk,nullzero" json:"id"`
	ContactID int     `bun:",nullzero" json:"contact_id"`
	Label     string  `bun:",nullzero" json:"label"`
	Street    string  `bun:",nullzero" json:"street"`
	City      string  `bun:",nullzero" json:"city"`
	ZipCode   *string `json:"zip_code,omitempty"`
	Country   *string `json:"country,omitempty"`
}

type ContactPhone struct {
	bun.BaseModel `bun:"table:contact_phones,alias:cp"`

	ID        int    `bun:",pk,nullzero" json:"id"`
	ContactID int    `bun:",nullzero" json:"contact_id"`
	Label     string `bun:",nullzero" json:"label"`
	Number    string `bun:",nullzero" json:"number"`
}

type ContactEmail struct {
	bun.BaseModel `bun:"table:contact_emails,alias:ce"`

	ID        int    `bun:",pk,nullzero" json:"id"`
	ContactID int    `bun:",nullzero" json:"contact_id"`
	Label     string `bun:",nullzero" json:"label"`
	Address   string `bun:",nullzero" json:"address"`
}
