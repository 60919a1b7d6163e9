package model

import "time"

type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Company   *string   `db:"company" json:"company"`
	Status    *string   `db:"status" json:"status"`
	LeadID    *string   `db:"lead_id" json:"leadId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Contacts []Contact `db:"-" json:"contacts"`
}

type ClientParams struct {
	Name    string
	Company *string
	Status  *string
	LeadID  *string
}

// ClientContact is a join row between a client and a shared contact.
type ClientContact struct {
	ClientID  string `db:"client_id" json:"clientId"`
	ContactID string `db:"contact_id" json:"contactId"`
}

// LeadContact is a join row between a lead and a shared contact.
type LeadContact struct {
	LeadID    string `db:"lead_id" json:"leadId"`
	ContactID string `db:"contact_id" json:"contactId"`
}
