package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

type LeadRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]model.Lead, error)
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	// FindByIDForUpdate locks the lead row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Lead, error)
	FindByContactID(ctx context.Context, contactID string) ([]model.Lead, error)
	Create(ctx context.Context, params model.CreateLeadParams) (*model.Lead, error)
	Update(ctx context.Context, id string, params model.UpdateLeadParams) (*model.Lead, error)
	UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	AddContacts(ctx context.Context, leadID string, contactIDs []string) error
	// ReplaceContacts deletes the lead's join rows and inserts one per contactIDs entry.
	ReplaceContacts(ctx context.Context, leadID string, contactIDs []string) error
	WithTx(tx *sqlx.Tx) LeadRepository
}

type leadRepo struct {
	db database.DBTX
}

func NewLeadRepository(db *sqlx.DB) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) WithTx(tx *sqlx.Tx) LeadRepository {
	return &leadRepo{db: tx}
}

func (r *leadRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	leads := []model.Lead{}
	err := r.db.SelectContext(ctx, &leads, `
		SELECT * FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *leadRepo) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.GetContext(ctx, &lead, `SELECT * FROM leads WHERE id = $1`, id)
	return HandleNotFound(&lead, err)
}

func (r *leadRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.GetContext(ctx, &lead, `SELECT * FROM leads WHERE id = $1 FOR UPDATE`, id)
	return HandleNotFound(&lead, err)
}

func (r *leadRepo) FindByContactID(ctx context.Context, contactID string) ([]model.Lead, error) {
	leads := []model.Lead{}
	err := r.db.SelectContext(ctx, &leads, `
		SELECT l.* FROM leads l
		JOIN lead_contacts lc ON lc.lead_id = l.id
		WHERE lc.contact_id = $1
		ORDER BY l.created_at DESC
	`, contactID)
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *leadRepo) Create(ctx context.Context, params model.CreateLeadParams) (*model.Lead, error) {
	status := params.Status
	if status == "" {
		status = model.LeadStatusNew
	}

	var lead model.Lead
	err := r.db.GetContext(ctx, &lead, `
		INSERT INTO leads (id, title, description, status, value, assigned_to_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, newID(), params.Title, params.Description, string(status), params.Value, params.AssignedToID)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepo) Update(ctx context.Context, id string, params model.UpdateLeadParams) (*model.Lead, error) {
	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}

	var lead model.Lead
	err := r.db.GetContext(ctx, &lead, `
		UPDATE leads SET
			title = $2,
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			value = COALESCE($5, value),
			assigned_to_id = CASE WHEN $6::text IS NULL THEN assigned_to_id ELSE NULLIF($6::text, '') END,
			updated_at = $7
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Description, status, params.Value, params.AssignedToID, time.Now())
	return HandleNotFound(&lead, err)
}

func (r *leadRepo) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE leads SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), time.Now())
	return err
}

func (r *leadRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id))
}

func (r *leadRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM leads`)
	return count, err
}

func (r *leadRepo) AddContacts(ctx context.Context, leadID string, contactIDs []string) error {
	if len(contactIDs) == 0 {
		return nil
	}
	rows := make([]model.LeadContact, 0, len(contactIDs))
	for _, contactID := range uniqueIDs(contactIDs) {
		rows = append(rows, model.LeadContact{LeadID: leadID, ContactID: contactID})
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO lead_contacts (lead_id, contact_id) VALUES (:lead_id, :contact_id)
	`, rows)
	return err
}

func (r *leadRepo) ReplaceContacts(ctx context.Context, leadID string, contactIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lead_contacts WHERE lead_id = $1`, leadID); err != nil {
		return err
	}
	return r.AddContacts(ctx, leadID, contactIDs)
}

// uniqueIDs drops repeated ids so a join insert never trips its own primary key.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
