package hr

// EmploymentStatus tracks where an employee is in the employment
// lifecycle. Terminated is terminal.
type EmploymentStatus string

const (
	StatusOnboarding  EmploymentStatus = "onboarding"
	StatusActive      EmploymentStatus = "active"
	StatusSuspended   EmploymentStatus = "suspended"
	StatusOffboarding EmploymentStatus = "offboarding"
	StatusTerminated  EmploymentStatus = "terminated"
)

// IsValid reports whether s is one of the known statuses.
func (s EmploymentStatus) IsValid() bool {
	switch s {
	case StatusOnboarding, StatusActive, StatusSuspended, StatusOffboarding, StatusTerminated:
		return true
	}
	return false
}

// DocumentType classifies employee documents. Versioning is scoped per
// type: uploading a second contract makes it contract v2.
type DocumentType string

const (
	DocumentUnknown        DocumentType = "unknown"
	DocumentContract       DocumentType = "contract"
	DocumentIdentification DocumentType = "identification"
	DocumentCertification  DocumentType = "certification"
	DocumentOther          DocumentType = "other"
)

// IsValid reports whether t is one of the known document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentUnknown, DocumentContract, DocumentIdentification, DocumentCertification, DocumentOther:
		return true
	}
	return false
}
