package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
)

// LeadInput is a validated lead create or update request.
// A nil ContactIDs leaves the lead's contacts untouched on update.
type LeadInput struct {
	Title        string
	Description  *string
	Status       *model.LeadStatus
	Value        *float64
	AssignedToID *string
	ContactIDs   *[]string
}

type LeadService struct {
	db           Transactor
	leadRepo     repository.LeadRepository
	clientRepo   repository.ClientRepository
	contactRepo  repository.ContactRepository
	employeeRepo repository.EmployeeRepository
}

func NewLeadService(
	db Transactor,
	leadRepo repository.LeadRepository,
	clientRepo repository.ClientRepository,
	contactRepo repository.ContactRepository,
	employeeRepo repository.EmployeeRepository,
) *LeadService {
	return &LeadService{
		db:           db,
		leadRepo:     leadRepo,
		clientRepo:   clientRepo,
		contactRepo:  contactRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *LeadService) List(ctx context.Context, limit, offset int) ([]model.Lead, int, error) {
	leads, err := s.leadRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, storeError(err)
	}

	total, err := s.leadRepo.Count(ctx)
	if err != nil {
		return nil, 0, storeError(err)
	}

	if err := s.hydrate(ctx, leads); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if lead == nil {
		return nil, apperrors.NotFound("Lead")
	}

	leads := []model.Lead{*lead}
	if err := s.hydrate(ctx, leads); err != nil {
		return nil, err
	}
	return &leads[0], nil
}

func (s *LeadService) Create(ctx context.Context, in LeadInput) (*model.Lead, error) {
	params := model.CreateLeadParams{
		Title:        in.Title,
		Description:  in.Description,
		Status:       model.LeadStatusNew,
		Value:        in.Value,
		AssignedToID: emptyToNil(in.AssignedToID),
	}
	if in.Status != nil {
		params.Status = *in.Status
	}

	var created *model.Lead
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		leads := s.leadRepo.WithTx(tx)

		lead, err := leads.Create(ctx, params)
		if err != nil {
			return err
		}
		if in.ContactIDs != nil {
			if err := leads.AddContacts(ctx, lead.ID, *in.ContactIDs); err != nil {
				return err
			}
		}
		created = lead
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	log.Info().Str("leadId", created.ID).Str("status", string(created.Status)).Msg("lead created")

	return s.Get(ctx, created.ID)
}

// Update changes the lead's fields and, when ContactIDs is set, replaces its
// contact associations. Both happen in one transaction.
func (s *LeadService) Update(ctx context.Context, id string, in LeadInput) (*model.Lead, error) {
	params := model.UpdateLeadParams{
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Value:        in.Value,
		AssignedToID: in.AssignedToID,
	}

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		leads := s.leadRepo.WithTx(tx)

		lead, err := leads.Update(ctx, id, params)
		if err != nil {
			return err
		}
		if lead == nil {
			return apperrors.NotFound("Lead")
		}
		if in.ContactIDs != nil {
			return leads.ReplaceContacts(ctx, id, *in.ContactIDs)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	return s.Get(ctx, id)
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	deleted, err := s.leadRepo.Delete(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.NotFound("Lead")
	}
	return nil
}

// Convert promotes a lead into a new client in one transaction: the lead is
// locked and marked CONVERTED, a client named after the lead is created with
// a back-reference to it, and every lead contact is linked to the new client.
// Any failure leaves the lead, clients and join rows as they were.
func (s *LeadService) Convert(ctx context.Context, id string) (*model.Client, error) {
	var client *model.Client

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		leads := s.leadRepo.WithTx(tx)
		clients := s.clientRepo.WithTx(tx)
		contacts := s.contactRepo.WithTx(tx)

		lead, err := leads.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock lead: %w", err)
		}
		if lead == nil {
			return apperrors.NotFound("Lead")
		}
		if lead.Status == model.LeadStatusConverted {
			return apperrors.AlreadyConverted()
		}

		linked, err := contacts.FindByLeadIDs(ctx, []string{lead.ID})
		if err != nil {
			return fmt.Errorf("load lead contacts: %w", err)
		}

		if err := leads.UpdateStatus(ctx, lead.ID, model.LeadStatusConverted); err != nil {
			return fmt.Errorf("mark lead converted: %w", err)
		}

		status := model.ClientStatusActive
		created, err := clients.Create(ctx, model.ClientParams{
			Name:   lead.Title,
			Status: &status,
			LeadID: &lead.ID,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return apperrors.AlreadyConverted().WithCause(err)
			}
			return fmt.Errorf("create client: %w", err)
		}

		contactIDs := make([]string, 0, len(linked))
		created.Contacts = make([]model.Contact, 0, len(linked))
		for _, lc := range linked {
			contactIDs = append(contactIDs, lc.ID)
			created.Contacts = append(created.Contacts, lc.Contact)
		}

		if _, err := clients.AddContacts(ctx, created.ID, contactIDs); err != nil {
			return fmt.Errorf("copy contacts: %w", err)
		}

		client = created
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	log.Info().
		Str("leadId", id).
		Str("clientId", client.ID).
		Int("contacts", len(client.Contacts)).
		Msg("lead converted")

	return client, nil
}

// hydrate attaches assignees, contacts and converted clients to leads in place.
func (s *LeadService) hydrate(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	leadIDs := make([]string, 0, len(leads))
	var assigneeIDs []string
	for _, l := range leads {
		leadIDs = append(leadIDs, l.ID)
		if l.AssignedToID != nil {
			assigneeIDs = append(assigneeIDs, *l.AssignedToID)
		}
	}

	linked, err := s.contactRepo.FindByLeadIDs(ctx, leadIDs)
	if err != nil {
		return storeError(err)
	}
	employees, err := s.employeeRepo.FindByIDs(ctx, assigneeIDs)
	if err != nil {
		return storeError(err)
	}
	clients, err := s.clientRepo.FindByLeadIDs(ctx, leadIDs)
	if err != nil {
		return storeError(err)
	}

	contactsByLead := groupContacts(linked)
	employeesByID := make(map[string]model.Employee, len(employees))
	for _, e := range employees {
		employeesByID[e.ID] = e
	}
	clientsByLead := make(map[string]model.Client, len(clients))
	for _, c := range clients {
		if c.LeadID != nil {
			clientsByLead[*c.LeadID] = c
		}
	}

	for i := range leads {
		l := &leads[i]
		l.Contacts = contactsByLead[l.ID]
		if l.Contacts == nil {
			l.Contacts = []model.Contact{}
		}
		if l.AssignedToID != nil {
			if e, ok := employeesByID[*l.AssignedToID]; ok {
				l.AssignedTo = &e
			}
		}
		if c, ok := clientsByLead[l.ID]; ok {
			l.Client = &c
		}
	}

	return nil
}

func groupContacts(linked []model.LinkedContact) map[string][]model.Contact {
	grouped := make(map[string][]model.Contact)
	for _, lc := range linked {
		grouped[lc.OwnerID] = append(grouped[lc.OwnerID], lc.Contact)
	}
	return grouped
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
