package hr

import (
	"strings"

	"github.com/google/uuid"
)

// Department is a lightweight organizational unit employees reference.
type Department struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// NewDepartment creates an active department.
func NewDepartment(name string) (*Department, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDepartmentNameRequired
	}
	return &Department{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		IsActive: true,
	}, nil
}

// Rename changes the department name.
func (d *Department) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDepartmentNameRequired
	}
	d.Name = strings.TrimSpace(name)
	return nil
}

// Activate makes the department assignable.
func (d *Department) Activate() { d.IsActive = true }

// Deactivate retires the department without deleting it.
func (d *Department) Deactivate() { d.IsActive = false }
