package service

import (
	"context"

	"github.com/leadline/crm-server/internal/model"
	"github.com/leadline/crm-server/internal/repository"
)

type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeService(employeeRepo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.employeeRepo.FindAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return employees, nil
}
