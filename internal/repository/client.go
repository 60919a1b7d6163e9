package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

type ClientRepository interface {
	FindAll(ctx context.Context, limit, offset int) ([]model.Client, error)
	FindByID(ctx context.Context, id string) (*model.Client, error)
	FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.Client, error)
	FindByContactID(ctx context.Context, contactID string) ([]model.Client, error)
	Create(ctx context.Context, params model.ClientParams) (*model.Client, error)
	Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	// AddContacts bulk-inserts one client_contacts row per contact id.
	AddContacts(ctx context.Context, clientID string, contactIDs []string) ([]model.ClientContact, error)
	WithTx(tx *sqlx.Tx) ClientRepository
}

type clientRepo struct {
	db database.DBTX
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) WithTx(tx *sqlx.Tx) ClientRepository {
	return &clientRepo{db: tx}
}

func (r *clientRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Client, error) {
	clients := []model.Client{}
	err := r.db.SelectContext(ctx, &clients, `
		SELECT * FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `SELECT * FROM clients WHERE id = $1`, id)
	return HandleNotFound(&client, err)
}

func (r *clientRepo) FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.Client, error) {
	clients := []model.Client{}
	if len(leadIDs) == 0 {
		return clients, nil
	}
	err := r.db.SelectContext(ctx, &clients, `
		SELECT * FROM clients WHERE lead_id = ANY($1)
	`, pq.Array(leadIDs))
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) FindByContactID(ctx context.Context, contactID string) ([]model.Client, error) {
	clients := []model.Client{}
	err := r.db.SelectContext(ctx, &clients, `
		SELECT cl.* FROM clients cl
		JOIN client_contacts cc ON cc.client_id = cl.id
		WHERE cc.contact_id = $1
		ORDER BY cl.created_at DESC
	`, contactID)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) Create(ctx context.Context, params model.ClientParams) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `
		INSERT INTO clients (id, name, company, status, lead_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, newID(), params.Name, params.Company, params.Status, params.LeadID)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error) {
	var client model.Client
	err := r.db.GetContext(ctx, &client, `
		UPDATE clients SET
			name = $2,
			company = COALESCE($3, company),
			status = COALESCE($4, status),
			updated_at = $5
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.Company, params.Status, time.Now())
	return HandleNotFound(&client, err)
}

func (r *clientRepo) Delete(ctx context.Context, id string) (bool, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id))
}

func (r *clientRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clients`)
	return count, err
}

func (r *clientRepo) AddContacts(ctx context.Context, clientID string, contactIDs []string) ([]model.ClientContact, error) {
	rows := make([]model.ClientContact, 0, len(contactIDs))
	for _, contactID := range uniqueIDs(contactIDs) {
		rows = append(rows, model.ClientContact{ClientID: clientID, ContactID: contactID})
	}
	if len(rows) == 0 {
		return rows, nil
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO client_contacts (client_id, contact_id) VALUES (:client_id, :contact_id)
	`, rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
