package model

import "time"

type Lead struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  *string    `db:"description" json:"description"`
	Status       LeadStatus `db:"status" json:"status"`
	Value        *float64   `db:"value" json:"value"`
	AssignedToID *string    `db:"assigned_to_id" json:"assignedToId"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`

	AssignedTo *Employee `db:"-" json:"assignedTo,omitempty"`
	Contacts   []Contact `db:"-" json:"contacts"`
	Client     *Client   `db:"-" json:"client,omitempty"`
}

type CreateLeadParams struct {
	Title        string
	Description  *string
	Status       LeadStatus
	Value        *float64
	AssignedToID *string
}

// UpdateLeadParams holds a lead update. Nil fields keep their stored value.
// An empty AssignedToID clears the assignee.
type UpdateLeadParams struct {
	Title        string
	Description  *string
	Status       *LeadStatus
	Value        *float64
	AssignedToID *string
}
