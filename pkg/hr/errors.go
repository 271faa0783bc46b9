package hr

import "errors"

var (
	// Validation errors: the caller passed a bad argument and can correct it.
	ErrFirstNameRequired       = errors.New("first name is required")
	ErrLastNameRequired        = errors.New("last name is required")
	ErrEmailRequired           = errors.New("email is required")
	ErrJobTitleRequired        = errors.New("job title is required")
	ErrFileNameRequired        = errors.New("document file name is required")
	ErrStoragePathRequired     = errors.New("document storage path is required")
	ErrDocumentSizeNotPositive = errors.New("document size must be positive")
	ErrDepartmentNameRequired  = errors.New("department name is required")

	// Domain-rule violations.
	ErrEmployeeTerminated = errors.New("employee is terminated")
	ErrDocumentArchived   = errors.New("document is archived")

	// Not-found conditions.
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)
