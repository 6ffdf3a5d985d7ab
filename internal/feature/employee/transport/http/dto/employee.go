// Package dto defines data transfer objects for the employee HTTP API.
package dto

import "account_backend/internal/feature/employee/domain/entity"

// CreateSectionReq is the body of POST /api/sections.
type CreateSectionReq struct {
	Name string `json:"name"`
}

// CreateEmployeeReq is the body of POST /api/employees.
type CreateEmployeeReq struct {
	Name      string `json:"name"`
	WorkHours string `json:"workHours"`
	SectionID *uint  `json:"sectionId"`
}

// SectionItem is the public view of a section.
type SectionItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// EmployeeItem is the public view of an employee.
type EmployeeItem struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	WorkHours string       `json:"workHours,omitempty"`
	Section   *SectionItem `json:"section,omitempty"`
}

// NewSectionItem converts an entity.Section.
func NewSectionItem(s entity.Section) SectionItem {
	return SectionItem{ID: s.ID, Name: s.Name}
}

// NewEmployeeItem converts an entity.Employee.
func NewEmployeeItem(e entity.Employee) EmployeeItem {
	item := EmployeeItem{ID: e.ID, Name: e.Name, WorkHours: e.WorkHours}
	if e.Section != nil {
		s := NewSectionItem(*e.Section)
		item.Section = &s
	}
	return item
}
