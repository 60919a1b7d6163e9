package handler

import (
	"context"
	"net/http"

	"github.com/leadline/crm-server/internal/model"
)

type EmployeeService interface {
	List(ctx context.Context) ([]model.Employee, error)
}

type EmployeeHandler struct {
	employeeService EmployeeService
}

func NewEmployeeHandler(employeeService EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.List(r.Context())
	if err != nil {
		writeError(w, r, err, "failed to list employees")
		return
	}

	writeList(w, employees, len(employees))
}
