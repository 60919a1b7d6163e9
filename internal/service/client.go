package service

import (
	"context"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
)

type ClientService struct {
	clientRepo  repository.ClientRepository
	contactRepo repository.ContactRepository
}

func NewClientService(clientRepo repository.ClientRepository, contactRepo repository.ContactRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
	}
}

func (s *ClientService) List(ctx context.Context, limit, offset int) ([]model.Client, int, error) {
	clients, err := s.clientRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, storeError(err)
	}

	total, err := s.clientRepo.Count(ctx)
	if err != nil {
		return nil, 0, storeError(err)
	}

	if err := s.attachContacts(ctx, clients); err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if client == nil {
		return nil, apperrors.NotFound("Client")
	}

	clients := []model.Client{*client}
	if err := s.attachContacts(ctx, clients); err != nil {
		return nil, err
	}
	return &clients[0], nil
}

func (s *ClientService) Create(ctx context.Context, params model.ClientParams) (*model.Client, error) {
	client, err := s.clientRepo.Create(ctx, params)
	if err != nil {
		return nil, storeError(err)
	}
	client.Contacts = []model.Contact{}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error) {
	client, err := s.clientRepo.Update(ctx, id, params)
	if err != nil {
		return nil, storeError(err)
	}
	if client == nil {
		return nil, apperrors.NotFound("Client")
	}

	clients := []model.Client{*client}
	if err := s.attachContacts(ctx, clients); err != nil {
		return nil, err
	}
	return &clients[0], nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	deleted, err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.NotFound("Client")
	}
	return nil
}

func (s *ClientService) attachContacts(ctx context.Context, clients []model.Client) error {
	if len(clients) == 0 {
		return nil
	}

	ids := make([]string, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}

	linked, err := s.contactRepo.FindByClientIDs(ctx, ids)
	if err != nil {
		return storeError(err)
	}

	byClient := groupContacts(linked)
	for i := range clients {
		clients[i].Contacts = byClient[clients[i].ID]
		if clients[i].Contacts == nil {
			clients[i].Contacts = []model.Contact{}
		}
	}
	return nil
}
