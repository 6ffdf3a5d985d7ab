// Package usecase implements the business logic for employee and section records.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"account_backend/internal/feature/employee/domain/entity"
)

// EmployeeRepository abstracts the persistence layer for employees and sections.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type EmployeeRepository interface {
	// CreateSection returns ErrSectionExists when the name is taken.
	CreateSection(ctx context.Context, s *entity.Section) error
	ListSections(ctx context.Context) ([]entity.Section, error)
	// FindSection returns ErrSectionNotFound when no section has the ID.
	FindSection(ctx context.Context, id uint) (*entity.Section, error)

	CreateEmployee(ctx context.Context, e *entity.Employee) error
	// ListEmployees returns employees with their Section loaded, ordered by ID.
	ListEmployees(ctx context.Context) ([]entity.Employee, error)
	// FindEmployee returns ErrEmployeeNotFound when no employee has the ID.
	FindEmployee(ctx context.Context, id uint) (*entity.Employee, error)
}

// CreateEmployeeInput carries the fields of a new employee.
type CreateEmployeeInput struct {
	Name      string
	WorkHours string
	SectionID *uint
}

// EmployeeUsecase provides business logic for employee records.
type EmployeeUsecase struct {
	repo EmployeeRepository
}

// NewEmployeeUsecase creates a new EmployeeUsecase with the given repository.
func NewEmployeeUsecase(r EmployeeRepository) *EmployeeUsecase {
	return &EmployeeUsecase{repo: r}
}

// CreateSection stores a new section with a trimmed, non-empty name.
func (u *EmployeeUsecase) CreateSection(ctx context.Context, name string) (*entity.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	s := &entity.Section{Name: name}
	if err := u.repo.CreateSection(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSections returns all sections.
func (u *EmployeeUsecase) ListSections(ctx context.Context) ([]entity.Section, error) {
	return u.repo.ListSections(ctx)
}

// CreateEmployee stores a new employee. A given SectionID must reference an existing section.
func (u *EmployeeUsecase) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*entity.Employee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	e := &entity.Employee{
		Name:      name,
		WorkHours: strings.TrimSpace(in.WorkHours),
		SectionID: in.SectionID,
	}
	if in.SectionID != nil {
		section, err := u.repo.FindSection(ctx, *in.SectionID)
		if err != nil {
			return nil, err
		}
		e.Section = section
	}

	if err := u.repo.CreateEmployee(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns all employees.
func (u *EmployeeUsecase) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	return u.repo.ListEmployees(ctx)
}

// GetEmployee returns the employee with the given ID.
func (u *EmployeeUsecase) GetEmployee(ctx context.Context, id uint) (*entity.Employee, error) {
	return u.repo.FindEmployee(ctx, id)
}
