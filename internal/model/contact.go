package model

import "time"

type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone"`
	Company   *string   `db:"company" json:"company"`
	Position  *string   `db:"position" json:"position"`
	Notes     *string   `db:"notes" json:"notes"`
	Image     *string   `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Leads   []Lead   `db:"-" json:"leads,omitempty"`
	Clients []Client `db:"-" json:"clients,omitempty"`
}

type ContactParams struct {
	Name     string
	Email    *string
	Phone    *string
	Company  *string
	Position *string
	Notes    *string
	Image    *string
}

// LinkedContact is a contact together with the owner of the join row that
// references it. It is the result of loading the contacts of several leads
// or clients in one query.
type LinkedContact struct {
	OwnerID string `db:"owner_id"`
	Contact
}
