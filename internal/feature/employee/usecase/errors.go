package usecase

import "errors"

var (
	// ErrNameRequired is returned when a section or employee has no name.
	ErrNameRequired = errors.New("name is required")

	// ErrSectionExists is returned when a section name is already taken.
	ErrSectionExists = errors.New("section already exists")

	// ErrSectionNotFound is returned when a referenced section does not exist.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmployeeNotFound is returned when no employee has the requested ID.
	ErrEmployeeNotFound = errors.New("employee not found")
)
