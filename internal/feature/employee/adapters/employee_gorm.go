// Package adapters provides the repository implementations for the employee feature.
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"account_backend/internal/feature/employee/domain/entity"
	"account_backend/internal/feature/employee/usecase"
)

// employeeGorm is the gorm implementation of usecase.EmployeeRepository.
type employeeGorm struct {
	db *gorm.DB
}

var _ usecase.EmployeeRepository = (*employeeGorm)(nil)

// NewEmployeeRepository creates an employeeGorm over db.
func NewEmployeeRepository(db *gorm.DB) *employeeGorm {
	return &employeeGorm{db: db}
}

// CreateSection inserts s and maps a unique name violation to usecase.ErrSectionExists.
func (r *employeeGorm) CreateSection(ctx context.Context, s *entity.Section) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrSectionExists
		}
		return err
	}
	return nil
}

// ListSections returns all sections ordered by name.
func (r *employeeGorm) ListSections(ctx context.Context) ([]entity.Section, error) {
	var sections []entity.Section
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *employeeGorm) FindSection(ctx context.Context, id uint) (*entity.Section, error) {
	var s entity.Section
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSectionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateEmployee inserts e without touching its Section association.
func (r *employeeGorm) CreateEmployee(ctx context.Context, e *entity.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *employeeGorm) ListEmployees(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee
	if err := r.db.WithContext(ctx).
		Preload("Section").
		Order("id ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *employeeGorm) FindEmployee(ctx context.Context, id uint) (*entity.Employee, error) {
	var e entity.Employee
	if err := r.db.WithContext(ctx).Preload("Section").First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// isUniqueViolation recognizes unique-index failures from postgres and sqlite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
