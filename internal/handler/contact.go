package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadline/crm-server/internal/audit"
	"github.com/leadline/crm-server/internal/model"
)

type ContactService interface {
	List(ctx context.Context, limit, offset int) ([]model.Contact, int, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	Create(ctx context.Context, params model.ContactParams) (*model.Contact, error)
	Update(ctx context.Context, id string, params model.ContactParams) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type ContactHandler struct {
	contactService ContactService
}

func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Routes is mounted under /api/contacts.
func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Empty email and image strings are accepted and mean "none".
type contactRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email|len=0"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Position *string `json:"position"`
	Notes    *string `json:"notes"`
	Image    *string `json:"image" validate:"omitempty,url|len=0"`
}

func (req contactRequest) params() model.ContactParams {
	return model.ContactParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Position: req.Position,
		Notes:    req.Notes,
		Image:    req.Image,
	}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	contacts, total, err := h.contactService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, "failed to list contacts")
		return
	}

	writeList(w, contacts, total)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contactService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "failed to get contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid contact")
		return
	}

	contact, err := h.contactService.Create(r.Context(), req.params())
	if err != nil {
		writeError(w, r, err, "failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid contact")
		return
	}

	contact, err := h.contactService.Update(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, r, err, "failed to update contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "failed to delete contact")
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventContactDelete,
		UserID:  callerID(r),
		Details: map[string]interface{}{"contact_id": id},
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Contact deleted successfully"})
}
