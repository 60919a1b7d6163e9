package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadline/crm-server/internal/audit"
	"github.com/leadline/crm-server/internal/middleware"
	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/service"
)

type LeadService interface {
	List(ctx context.Context, limit, offset int) ([]model.Lead, int, error)
	Get(ctx context.Context, id string) (*model.Lead, error)
	Create(ctx context.Context, in service.LeadInput) (*model.Lead, error)
	Update(ctx context.Context, id string, in service.LeadInput) (*model.Lead, error)
	Delete(ctx context.Context, id string) error
	Convert(ctx context.Context, id string) (*model.Client, error)
}

type LeadHandler struct {
	leadService LeadService
}

func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Routes is mounted under /api/leads.
func (h *LeadHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/convert", h.Convert)

	return r
}

type leadRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  *string           `json:"description"`
	Status       *model.LeadStatus `json:"status" validate:"omitempty,leadstatus"`
	Value        *float64          `json:"value"`
	AssignedToID *string           `json:"assignedToId"`
	ContactIDs   []string          `json:"contactIds" validate:"dive,required"`
}

// input keeps an absent contactIds distinct from an empty list.
func (req leadRequest) input() service.LeadInput {
	in := service.LeadInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Value:        req.Value,
		AssignedToID: req.AssignedToID,
	}
	if req.ContactIDs != nil {
		ids := req.ContactIDs
		in.ContactIDs = &ids
	}
	return in
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	leads, total, err := h.leadService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, "failed to list leads")
		return
	}

	writeList(w, leads, total)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leadService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "failed to get lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid lead")
		return
	}

	lead, err := h.leadService.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err, "failed to create lead")
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid lead")
		return
	}

	lead, err := h.leadService.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, r, err, "failed to update lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.leadService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "failed to delete lead")
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLeadDelete,
		UserID:  callerID(r),
		Details: map[string]interface{}{"lead_id": id},
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Lead deleted successfully"})
}

func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.leadService.Convert(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to convert lead")
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventLeadConverted,
		UserID: callerID(r),
		Details: map[string]interface{}{
			"lead_id":   id,
			"client_id": client.ID,
			"contacts":  len(client.Contacts),
		},
	})

	writeJSON(w, http.StatusOK, client)
}

func callerID(r *http.Request) string {
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		return claims.UserID
	}
	return ""
}
