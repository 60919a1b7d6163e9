package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
)

// fakeTx runs the function without a real transaction and counts calls.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	f.calls++
	return fn(nil)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, id string, loginAt, tokenExpiry time.Time) error {
	return m.Called(ctx, id, loginAt, tokenExpiry).Error(0)
}

func (m *mockUserRepo) ClearExpiredTokenExpiry(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) WithTx(tx *sqlx.Tx) repository.LeadRepository { return m }

func (m *mockLeadRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) FindByContactID(ctx context.Context, contactID string) ([]model.Lead, error) {
	args := m.Called(ctx, contactID)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) Create(ctx context.Context, params model.CreateLeadParams) (*model.Lead, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) Update(ctx context.Context, id string, params model.UpdateLeadParams) (*model.Lead, error) {
	args := m.Called(ctx, id, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockLeadRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLeadRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockLeadRepo) AddContacts(ctx context.Context, leadID string, contactIDs []string) error {
	return m.Called(ctx, leadID, contactIDs).Error(0)
}

func (m *mockLeadRepo) ReplaceContacts(ctx context.Context, leadID string, contactIDs []string) error {
	return m.Called(ctx, leadID, contactIDs).Error(0)
}

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) WithTx(tx *sqlx.Tx) repository.ClientRepository { return m }

func (m *mockClientRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Client, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.Client, error) {
	args := m.Called(ctx, leadIDs)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) FindByContactID(ctx context.Context, contactID string) ([]model.Client, error) {
	args := m.Called(ctx, contactID)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Create(ctx context.Context, params model.ClientParams) (*model.Client, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error) {
	args := m.Called(ctx, id, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockClientRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockClientRepo) AddContacts(ctx context.Context, clientID string, contactIDs []string) ([]model.ClientContact, error) {
	args := m.Called(ctx, clientID, contactIDs)
	if v := args.Get(0); v != nil {
		return v.([]model.ClientContact), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) WithTx(tx *sqlx.Tx) repository.ContactRepository { return m }

func (m *mockContactRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) FindByLeadIDs(ctx context.Context, leadIDs []string) ([]model.LinkedContact, error) {
	args := m.Called(ctx, leadIDs)
	if v := args.Get(0); v != nil {
		return v.([]model.LinkedContact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) FindByClientIDs(ctx context.Context, clientIDs []string) ([]model.LinkedContact, error) {
	args := m.Called(ctx, clientIDs)
	if v := args.Get(0); v != nil {
		return v.([]model.LinkedContact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) Create(ctx context.Context, params model.ContactParams) (*model.Contact, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error) {
	args := m.Called(ctx, id, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockContactRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) FindAll(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEmployeeRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Employee, error) {
	args := m.Called(ctx, ids)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func strPtr(s string) *string { return &s }

func linked(owner string, ids ...string) []model.LinkedContact {
	out := make([]model.LinkedContact, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.LinkedContact{
			OwnerID: owner,
			Contact: model.Contact{ID: id, Name: "Contact " + id},
		})
	}
	return out
}
