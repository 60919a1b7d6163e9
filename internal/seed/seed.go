// Package seed loads the demo data the console ships with. Every insert is
// idempotent so the command can be rerun against a populated database.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

const (
	UserEmail     = "test@example.com"
	employeeEmail = "employee@example.com"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

var contacts = []model.Contact{
	{
		ID:       "contact-1",
		Name:     "Alice Smith",
		Email:    strPtr("alice@client.com"),
		Phone:    strPtr("555-0101"),
		Company:  strPtr("Wonder Tech"),
		Position: strPtr("CTO"),
		Image:    strPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=Alice"),
	},
	{
		ID:       "contact-2",
		Name:     "Bob Jones",
		Email:    strPtr("bob@enterprise.com"),
		Company:  strPtr("Big Corp"),
		Position: strPtr("Manager"),
		Image:    strPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=Bob"),
	},
}

var leads = []model.Lead{
	{
		ID:          "lead-1",
		Title:       "Enterprise License Deal",
		Description: strPtr("Potential sale of 500 licenses."),
		Status:      model.LeadStatusNew,
		Value:       floatPtr(50000),
	},
	{
		ID:          "lead-2",
		Title:       "Website Redesign",
		Description: strPtr("Full overhaul of corporate website."),
		Status:      model.LeadStatusQualified,
		Value:       floatPtr(12000),
	},
}

var leadContacts = []model.LeadContact{
	{LeadID: "lead-1", ContactID: "contact-1"},
	{LeadID: "lead-2", ContactID: "contact-2"},
}

var clientContacts = []model.ClientContact{
	{ClientID: "client-1", ContactID: "contact-1"},
}

// Run inserts the demo user, employee, contacts, leads and client in one
// transaction. passwordHash is the bcrypt hash stored for the demo user.
func Run(ctx context.Context, db *database.DB, passwordHash string) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, password)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING
		`, uuid.NewString(), UserEmail, passwordHash); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		var employeeID string
		if err := tx.GetContext(ctx, &employeeID, `
			INSERT INTO employees (id, name, email, position, image)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
			RETURNING id
		`, uuid.NewString(), "Jane Doe", employeeEmail, "Sales Representative",
			"https://api.dicebear.com/7.x/avataaars/svg?seed=Jane"); err != nil {
			return fmt.Errorf("seed employee: %w", err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO contacts (id, name, email, phone, company, position, image)
			VALUES (:id, :name, :email, :phone, :company, :position, :image)
			ON CONFLICT (id) DO NOTHING
		`, contacts); err != nil {
			return fmt.Errorf("seed contacts: %w", err)
		}

		assigned := make([]model.Lead, len(leads))
		for i, l := range leads {
			l.AssignedToID = &employeeID
			assigned[i] = l
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO leads (id, title, description, status, value, assigned_to_id)
			VALUES (:id, :title, :description, :status, :value, :assigned_to_id)
			ON CONFLICT (id) DO NOTHING
		`, assigned); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO lead_contacts (lead_id, contact_id)
			VALUES (:lead_id, :contact_id)
			ON CONFLICT DO NOTHING
		`, leadContacts); err != nil {
			return fmt.Errorf("seed lead contacts: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO clients (id, name, company, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, "client-1", "Acme Corp", "Acme Corp", model.ClientStatusActive); err != nil {
			return fmt.Errorf("seed client: %w", err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO client_contacts (client_id, contact_id)
			VALUES (:client_id, :contact_id)
			ON CONFLICT DO NOTHING
		`, clientContacts); err != nil {
			return fmt.Errorf("seed client contacts: %w", err)
		}

		log.Info().
			Str("user", UserEmail).
			Str("employeeId", employeeID).
			Int("contacts", len(contacts)).
			Int("leads", len(leads)).
			Msg("seed data applied")
		return nil
	})
}
