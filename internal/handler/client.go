package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadline/crm-server/internal/audit"
	"github.com/leadline/crm-server/internal/model"
)

type ClientService interface {
	List(ctx context.Context, limit, offset int) ([]model.Client, int, error)
	Get(ctx context.Context, id string) (*model.Client, error)
	Create(ctx context.Context, params model.ClientParams) (*model.Client, error)
	Update(ctx context.Context, id string, params model.ClientParams) (*model.Client, error)
	Delete(ctx context.Context, id string) error
}

type ClientHandler struct {
	clientService ClientService
}

func NewClientHandler(clientService ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Routes is mounted under /api/clients.
func (h *ClientHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

type clientRequest struct {
	Name    string  `json:"name" validate:"required"`
	Company *string `json:"company"`
	Status  *string `json:"status"`
}

func (req clientRequest) params() model.ClientParams {
	return model.ClientParams{
		Name:    req.Name,
		Company: req.Company,
		Status:  req.Status,
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	clients, total, err := h.clientService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, "failed to list clients")
		return
	}

	writeList(w, clients, total)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "failed to get client")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid client")
		return
	}

	client, err := h.clientService.Create(r.Context(), req.params())
	if err != nil {
		writeError(w, r, err, "failed to create client")
		return
	}

	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "invalid client")
		return
	}

	client, err := h.clientService.Update(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		writeError(w, r, err, "failed to update client")
		return
	}

	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "failed to delete client")
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventClientDelete,
		UserID:  callerID(r),
		Details: map[string]interface{}{"client_id": id},
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}
