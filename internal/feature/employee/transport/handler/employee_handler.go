// Package handler provides the HTTP handlers for employee and section records.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/employee/domain/entity"
	"account_backend/internal/feature/employee/transport/http/dto"
	"account_backend/internal/feature/employee/usecase"
)

// EmployeeUsecase defines the operations on employee records.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type EmployeeUsecase interface {
	CreateSection(ctx context.Context, name string) (*entity.Section, error)
	ListSections(ctx context.Context) ([]entity.Section, error)
	CreateEmployee(ctx context.Context, in usecase.CreateEmployeeInput) (*entity.Employee, error)
	ListEmployees(ctx context.Context) ([]entity.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*entity.Employee, error)
}

// EmployeeHandler handles HTTP requests for employees and sections.
type EmployeeHandler struct {
	uc EmployeeUsecase
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(uc EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// CreateSection handles POST /api/sections.
func (h *EmployeeHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	s, err := h.uc.CreateSection(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "create section", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "section": dto.NewSectionItem(*s)})
}

// ListSections handles GET /api/sections.
func (h *EmployeeHandler) ListSections(c *gin.Context) {
	sections, err := h.uc.ListSections(c.Request.Context())
	if err != nil {
		h.fail(c, "list sections", err)
		return
	}
	out := make([]dto.SectionItem, 0, len(sections))
	for _, s := range sections {
		out = append(out, dto.NewSectionItem(s))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sections": out})
}

// CreateEmployee handles POST /api/employees.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	e, err := h.uc.CreateEmployee(c.Request.Context(), usecase.CreateEmployeeInput{
		Name:      req.Name,
		WorkHours: req.WorkHours,
		SectionID: req.SectionID,
	})
	if err != nil {
		h.fail(c, "create employee", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "employee": dto.NewEmployeeItem(*e)})
}

// ListEmployees handles GET /api/employees.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.uc.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, "list employees", err)
		return
	}
	out := make([]dto.EmployeeItem, 0, len(employees))
	for _, e := range employees {
		out = append(out, dto.NewEmployeeItem(e))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "employees": out})
}

// GetEmployee handles GET /api/employees/:id.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid employee id"})
		return
	}
	e, err := h.uc.GetEmployee(c.Request.Context(), uint(id))
	if err != nil {
		h.fail(c, "get employee", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "employee": dto.NewEmployeeItem(*e)})
}

func (h *EmployeeHandler) fail(c *gin.Context, op string, err error) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, usecase.ErrNameRequired):
		status, msg = http.StatusBadRequest, "You must provide a name"
	case errors.Is(err, usecase.ErrSectionExists):
		status, msg = http.StatusConflict, "Section already exists"
	case errors.Is(err, usecase.ErrSectionNotFound):
		status, msg = http.StatusNotFound, "Section not found"
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		status, msg = http.StatusNotFound, "Employee not found"
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
		return
	}
	slog.Warn(op+" failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(status, gin.H{"success": false, "message": msg})
}
