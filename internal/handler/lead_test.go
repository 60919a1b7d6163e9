package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/service"
)

func newLeadRouter(svc LeadService) http.Handler {
	return mount("/api/leads", NewLeadHandler(svc).Routes())
}

func TestLeadHandler_Convert(t *testing.T) {
	t.Run("returns the created client with its contacts", func(t *testing.T) {
		svc := new(mockLeadService)
		active, leadID := "Active", "lead-9"
		svc.On("Convert", mock.Anything, "lead-9").Return(&model.Client{
			ID:     "client-9",
			Name:   "Big Deal",
			Status: &active,
			LeadID: &leadID,
			Contacts: []model.Contact{
				{ID: "c1", Name: "One"},
				{ID: "c2", Name: "Two"},
			},
		}, nil)

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads/lead-9/convert", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body model.Client
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Big Deal", body.Name)
		assert.Equal(t, "lead-9", *body.LeadID)
		require.Len(t, body.Contacts, 2)
		assert.Equal(t, "c2", body.Contacts[1].ID)
	})

	t.Run("already converted is a 400", func(t *testing.T) {
		svc := new(mockLeadService)
		svc.On("Convert", mock.Anything, "lead-9").Return(nil, apperrors.AlreadyConverted())

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads/lead-9/convert", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Lead is already converted","code":"ALREADY_CONVERTED"}`, rec.Body.String())
	})

	t.Run("unknown lead is a 404", func(t *testing.T) {
		svc := new(mockLeadService)
		svc.On("Convert", mock.Anything, "ghost").Return(nil, apperrors.NotFound("Lead"))

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads/ghost/convert", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure hides the cause", func(t *testing.T) {
		svc := new(mockLeadService)
		svc.On("Convert", mock.Anything, "lead-1").Return(nil, apperrors.Database(assert.AnError))

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads/lead-1/convert", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestLeadHandler_Create(t *testing.T) {
	t.Run("passes contact ids and returns 201", func(t *testing.T) {
		svc := new(mockLeadService)
		ids := []string{"contact-1", "contact-2"}
		status := model.LeadStatusQualified
		value := 12000.5
		svc.On("Create", mock.Anything, service.LeadInput{
			Title:      "Website Redesign",
			Status:     &status,
			Value:      &value,
			ContactIDs: &ids,
		}).Return(&model.Lead{ID: "lead-3", Title: "Website Redesign", Status: status}, nil)

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads",
			`{"title":"Website Redesign","status":"QUALIFIED","value":12000.5,"contactIds":["contact-1","contact-2"]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		svc := new(mockLeadService)

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads", `{"description":"no title"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"title"`)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc := new(mockLeadService)

		rec := serve(newLeadRouter(svc), http.MethodPost, "/api/leads", `{"title":"X","status":"WON"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rule":"leadstatus"`)
	})
}

func TestLeadHandler_Update(t *testing.T) {
	t.Run("absent contactIds leaves contacts untouched", func(t *testing.T) {
		svc := new(mockLeadService)
		svc.On("Update", mock.Anything, "lead-1", service.LeadInput{Title: "Renamed"}).
			Return(&model.Lead{ID: "lead-1", Title: "Renamed"}, nil)

		rec := serve(newLeadRouter(svc), http.MethodPut, "/api/leads/lead-1", `{"title":"Renamed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty contactIds clears contacts and empty assignee unassigns", func(t *testing.T) {
		svc := new(mockLeadService)
		ids := []string{}
		svc.On("Update", mock.Anything, "lead-1", service.LeadInput{
			Title:        "Renamed",
			AssignedToID: strPtr(""),
			ContactIDs:   &ids,
		}).Return(&model.Lead{ID: "lead-1"}, nil)

		rec := serve(newLeadRouter(svc), http.MethodPut, "/api/leads/lead-1",
			`{"title":"Renamed","assignedToId":"","contactIds":[]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestLeadHandler_ListGetDelete(t *testing.T) {
	svc := new(mockLeadService)
	router := newLeadRouter(svc)

	svc.On("List", mock.Anything, 10, 20).Return([]model.Lead{{ID: "lead-1", Contacts: []model.Contact{}}}, 21, nil)
	svc.On("Get", mock.Anything, "ghost").Return(nil, apperrors.NotFound("Lead"))
	svc.On("Delete", mock.Anything, "lead-1").Return(nil)

	t.Run("list uses the items envelope", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/leads?limit=10&offset=20", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Items []model.Lead `json:"items"`
			Total int          `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Items, 1)
		assert.Equal(t, 21, body.Total)
	})

	t.Run("get unknown lead is a 404", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/leads/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete confirms", func(t *testing.T) {
		rec := serve(router, http.MethodDelete, "/api/leads/lead-1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Lead deleted successfully"}`, rec.Body.String())
	})
}
