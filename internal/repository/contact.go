package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

type ContactRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]model.Contact, error)
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	// FindByLeadIDs returns the contacts of the given leads, tagged with the lead id.
	FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.LinkedContact, error)
	// FindByClientIDs returns the contacts of the given clients, tagged with the client id.
	FindByClientIDs(ctx context.Context, clientIDs []string) ([]model.LinkedContact, error)
	Create(ctx context.Context, params model.ContactParams) (*model.Contact, error)
	Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	WithTx(tx *sqlx.Tx) ContactRepository
}

type contactRepo struct {
	db database.DBTX
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) WithTx(tx *sqlx.Tx) ContactRepository {
	return &contactRepo{db: tx}
}

func (r *contactRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	err := r.db.SelectContext(ctx, &contacts, `
		SELECT * FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE id = $1`, id)
	return HandleNotFound(&contact, err)
}

func (r *contactRepo) FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.LinkedContact, error) {
	linked := []model.LinkedContact{}
	if len(leadIDs) == 0 {
		return linked, nil
	}
	err := r.db.SelectContext(ctx, &linked, `
		SELECT lc.lead_id AS owner_id, c.*
		FROM lead_contacts lc
		JOIN contacts c ON c.id = lc.contact_id
		WHERE lc.lead_id = ANY($1)
		ORDER BY c.name ASC
	`, pq.Array(leadIDs))
	if err != nil {
		return nil, err
	}
	return linked, nil
}

func (r *contactRepo) FindByClientIDs(ctx context.Context, clientIDs []string) ([]model.LinkedContact, error) {
	linked := []model.LinkedContact{}
	if len(clientIDs) == 0 {
		return linked, nil
	}
	err := r.db.SelectContext(ctx, &linked, `
		SELECT cc.client_id AS owner_id, c.*
		FROM client_contacts cc
		JOIN contacts c ON c.id = cc.contact_id
		WHERE cc.client_id = ANY($1)
		ORDER BY c.name ASC
	`, pq.Array(clientIDs))
	if err != nil {
		return nil, err
	}
	return linked, nil
}

func (r *contactRepo) Create(ctx context.Context, params model.ContactParams) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `
		INSERT INTO contacts (id, name, email, phone, company, position, notes, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, newID(), params.Name, params.Email, params.Phone, params.Company, params.Position, params.Notes, params.Image)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepo) Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `
		UPDATE contacts SET
			name = $2,
			email = CASE WHEN $3::text IS NULL THEN email ELSE NULLIF($3::text, '') END,
			phone = COALESCE($4, phone),
			company = COALESCE($5, company),
			position = COALESCE($6, position),
			notes = COALESCE($7, notes),
			image = CASE WHEN $8::text IS NULL THEN image ELSE NULLIF($8::text, '') END,
			updated_at = $9
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Email, params.Phone, params.Company, params.Position, params.Notes, params.Image, time.Now())
	return HandleNotFound(&contact, err)
}

func (r *contactRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id))
}

func (r *contactRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contacts`)
	return count, err
}
