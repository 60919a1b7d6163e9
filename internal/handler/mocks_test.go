package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if v := args.Get(0); v != nil {
		return v.(*service.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLeadService struct {
	mock.Mock
}

func (m *mockLeadService) List(ctx context.Context, limit, offset int) ([]model.Lead, int, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Lead), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockLeadService) Get(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadService) Create(ctx context.Context, in service.LeadInput) (*model.Lead, error) {
	args := m.Called(ctx, in)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadService) Update(ctx context.Context, id string, in service.LeadInput) (*model.Lead, error) {
	args := m.Called(ctx, id, in)
	if v := args.Get(0); v != nil {
		return v.(*model.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLeadService) Convert(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockClientService struct {
	mock.Mock
}

func (m *mockClientService) List(ctx context.Context, limit, offset int) ([]model.Client, int, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Client), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockClientService) Get(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientService) Create(ctx context.Context, params model.ClientParams) (*model.Client, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientService) Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error) {
	args := m.Called(ctx, id, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) List(ctx context.Context, limit, offset int) ([]model.Contact, int, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]model.Contact), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) Create(ctx context.Context, params model.ContactParams) (*model.Contact, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error) {
	args := m.Called(ctx, id, params)
	if v := args.Get(0); v != nil {
		return v.(*model.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEmployeeService struct {
	mock.Mock
}

func (m *mockEmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]model.Employee), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func mount(prefix string, routes chi.Router) http.Handler {
	r := chi.NewRouter()
	r.Mount(prefix, routes)
	return r
}

func strPtr(s string) *string { return &s }
