package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/model"
)

type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Employee, error)
}

type employeeRepo struct {
	db database.DBTX
}

func NewEmployeeRepository(db *sqlx.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) FindAll(ctx context.Context) ([]model.Employee, error) {
	employees := []model.Employee{}
	err := r.db.SelectContext(ctx, &employees, `
		SELECT id, name, position, image FROM employees
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Employee, error) {
	employees := []model.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.SelectContext(ctx, &employees, `
		SELECT id, name, email, position, image FROM employees
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return employees, nil
}
