package service

import (
	"context"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
)

type ContactService struct {
	contactRepo repository.ContactRepository
	leadRepo    repository.LeadRepository
	clientRepo  repository.ClientRepository
}

func NewContactService(
	contactRepo repository.ContactRepository,
	leadRepo repository.LeadRepository,
	clientRepo repository.ClientRepository,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		leadRepo:    leadRepo,
		clientRepo:  clientRepo,
	}
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]model.Contact, int, error) {
	contacts, err := s.contactRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, storeError(err)
	}

	total, err := s.contactRepo.Count(ctx)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return contacts, total, nil
}

// Get returns the contact with the leads and clients that reference it.
func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if contact == nil {
		return nil, apperrors.NotFound("Contact")
	}

	leads, err := s.leadRepo.FindByContactID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	clients, err := s.clientRepo.FindByContactID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	contact.Leads = leads
	contact.Clients = clients
	return contact, nil
}

func (s *ContactService) Create(ctx context.Context, params model.ContactParams) (*model.Contact, error) {
	contact, err := s.contactRepo.Create(ctx, normalizeContact(params))
	if err != nil {
		return nil, storeError(err)
	}
	return contact, nil
}

func (s *ContactService) Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error) {
	contact, err := s.contactRepo.Update(ctx, id, params)
	if err != nil {
		return nil, storeError(err)
	}
	if contact == nil {
		return nil, apperrors.NotFound("Contact")
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	deleted, err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.NotFound("Contact")
	}
	return nil
}

// normalizeContact stores empty email and image values as NULL. On update an
// empty value clears the column instead, which the repository handles.
func normalizeContact(p model.ContactParams) model.ContactParams {
	p.Email = emptyToNil(p.Email)
	p.Image = emptyToNil(p.Image)
	return p
}
