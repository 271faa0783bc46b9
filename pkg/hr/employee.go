package hr

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the aggregate root for the employment lifecycle: profile,
// documents, and onboarding/offboarding workflows. The document and
// checklist collections are owned by the aggregate; accessors return
// copies and all mutation goes through the intention-revealing methods.
type Employee struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth *time.Time

	JobTitle       string
	DepartmentID   *uuid.UUID
	DepartmentName string
	ManagerID      *uuid.UUID

	Status           EmploymentStatus
	SuspensionReason string
	HireDate         time.Time
	TerminationDate  *time.Time
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt *time.Time

	OnboardingStartedAt    *time.Time
	OnboardingCompletedAt  *time.Time
	OffboardingStartedAt   *time.Time
	OffboardingCompletedAt *time.Time

	documents            []Document
	onboardingChecklist  []ChecklistItem
	offboardingChecklist []ChecklistItem
}

// EmployeeOption configures optional fields at hire time.
type EmployeeOption func(*Employee)

// WithDepartment assigns the employee to a department.
func WithDepartment(id uuid.UUID, name string) EmployeeOption {
	return func(e *Employee) {
		e.DepartmentID = &id
		e.DepartmentName = name
	}
}

// WithManager sets the employee's manager.
func WithManager(id uuid.UUID) EmployeeOption {
	return func(e *Employee) {
		e.ManagerID = &id
	}
}

// WithHireDate overrides the default hire date (today).
func WithHireDate(hireDate time.Time) EmployeeOption {
	return func(e *Employee) {
		e.HireDate = hireDate
	}
}

// NewEmployeeAt hires an employee at the given instant. The employee
// starts in Onboarding with the default checklist and becomes active
// only once onboarding completes.
func NewEmployeeAt(firstName, lastName, email, phoneNumber, jobTitle string, now time.Time, opts ...EmployeeOption) (*Employee, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, ErrFirstNameRequired
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, ErrLastNameRequired
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(jobTitle) == "" {
		return nil, ErrJobTitleRequired
	}

	startedAt := now
	e := &Employee{
		ID:                  uuid.New(),
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber:         strings.TrimSpace(phoneNumber),
		JobTitle:            strings.TrimSpace(jobTitle),
		Status:              StatusOnboarding,
		HireDate:            now.Truncate(24 * time.Hour),
		CreatedAt:           now,
		OnboardingStartedAt: &startedAt,
	}
	e.onboardingChecklist = defaultOnboardingChecklist(now)
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEmployee is NewEmployeeAt with the current wall-clock time.
func NewEmployee(firstName, lastName, email, phoneNumber, jobTitle string, opts ...EmployeeOption) (*Employee, error) {
	return NewEmployeeAt(firstName, lastName, email, phoneNumber, jobTitle, time.Now().UTC(), opts...)
}

func defaultOnboardingChecklist(now time.Time) []ChecklistItem {
	return []ChecklistItem{
		newChecklistItemAt("ACCOUNTS", "Create system accounts", now),
		newChecklistItemAt("DOCUMENTS", "Submit personal and ID documents", now),
		newChecklistItemAt("CONTRACT", "Sign employment contract", now),
		newChecklistItemAt("TRAINING", "Complete initial training", now),
	}
}

func defaultOffboardingChecklist(now time.Time) []ChecklistItem {
	return []ChecklistItem{
		newChecklistItemAt("DISABLE_ACCESS", "Disable system access", now),
		newChecklistItemAt("RETURN_ASSETS", "Return company assets", now),
		newChecklistItemAt("KNOWLEDGE_TRANSFER", "Complete knowledge transfer", now),
		newChecklistItemAt("EXIT_INTERVIEW", "Conduct exit interview", now),
	}
}

func (e *Employee) touchAt(now time.Time) {
	updatedAt := now
	e.UpdatedAt = &updatedAt
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// UpdatePersonalInfo updates profile fields. Blank values keep the
// existing data so partial form submissions cannot wipe a profile.
func (e *Employee) UpdatePersonalInfo(firstName, lastName, phoneNumber string, dateOfBirth *time.Time) {
	if strings.TrimSpace(firstName) != "" {
		e.FirstName = strings.TrimSpace(firstName)
	}
	if strings.TrimSpace(lastName) != "" {
		e.LastName = strings.TrimSpace(lastName)
	}
	if strings.TrimSpace(phoneNumber) != "" {
		e.PhoneNumber = strings.TrimSpace(phoneNumber)
	}
	if dateOfBirth != nil {
		e.DateOfBirth = dateOfBirth
	}
	e.touchAt(time.Now().UTC())
}

// UpdateJobDetails reassigns title, department and manager.
func (e *Employee) UpdateJobDetails(jobTitle string, departmentID *uuid.UUID, departmentName string, managerID *uuid.UUID) {
	if strings.TrimSpace(jobTitle) != "" {
		e.JobTitle = strings.TrimSpace(jobTitle)
	}
	e.DepartmentID = departmentID
	e.DepartmentName = departmentName
	e.ManagerID = managerID
	e.touchAt(time.Now().UTC())
}

// UpdateEmail changes the contact email, normalized to lowercase.
func (e *Employee) UpdateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	e.Email = strings.ToLower(strings.TrimSpace(email))
	e.touchAt(time.Now().UTC())
	return nil
}

// ActivateAt enables the employee. An onboarding employee becomes
// Active only when the checklist is complete; a suspended one returns
// to Active directly. Terminated employees cannot be activated.
func (e *Employee) ActivateAt(now time.Time) error {
	if e.Status == StatusTerminated {
		return ErrEmployeeTerminated
	}

	e.IsActive = true
	switch {
	case e.Status == StatusOnboarding && e.IsOnboardingComplete():
		e.Status = StatusActive
		if e.OnboardingCompletedAt == nil {
			completedAt := now
			e.OnboardingCompletedAt = &completedAt
		}
	case e.Status == StatusSuspended:
		e.Status = StatusActive
		e.SuspensionReason = ""
	}
	e.touchAt(now)
	return nil
}

// Activate is ActivateAt with the current wall-clock time.
func (e *Employee) Activate() error {
	return e.ActivateAt(time.Now().UTC())
}

// SuspendAt suspends the employee, recording why.
func (e *Employee) SuspendAt(reason string, now time.Time) error {
	if e.Status == StatusTerminated {
		return ErrEmployeeTerminated
	}
	e.Status = StatusSuspended
	e.SuspensionReason = reason
	e.IsActive = false
	e.touchAt(now)
	return nil
}

// Suspend is SuspendAt with the current wall-clock time.
func (e *Employee) Suspend(reason string) error {
	return e.SuspendAt(reason, time.Now().UTC())
}

// StartOnboardingAt (re)enters the onboarding workflow, seeding the
// default checklist if none exists yet.
func (e *Employee) StartOnboardingAt(now time.Time) error {
	if e.Status == StatusTerminated {
		return ErrEmployeeTerminated
	}
	e.Status = StatusOnboarding
	e.IsActive = false
	if len(e.onboardingChecklist) == 0 {
		e.onboardingChecklist = defaultOnboardingChecklist(now)
	}
	startedAt := now
	e.OnboardingStartedAt = &startedAt
	e.touchAt(now)
	return nil
}

// CompleteOnboardingTaskAt marks one checklist item done by its code
// (case-insensitive). Completing the last item activates the employee.
func (e *Employee) CompleteOnboardingTaskAt(code string, now time.Time) error {
	item := findChecklistItem(e.onboardingChecklist, code)
	if item == nil {
		return ErrChecklistItemNotFound
	}
	item.markCompletedAt(now)

	if e.IsOnboardingComplete() {
		completedAt := now
		e.OnboardingCompletedAt = &completedAt
		e.Status = StatusActive
		e.IsActive = true
	}
	e.touchAt(now)
	return nil
}

// CompleteOnboardingTask is CompleteOnboardingTaskAt with the current
// wall-clock time.
func (e *Employee) CompleteOnboardingTask(code string) error {
	return e.CompleteOnboardingTaskAt(code, time.Now().UTC())
}

// InitiateOffboardingAt starts the exit workflow with a fresh checklist.
func (e *Employee) InitiateOffboardingAt(reason string, now time.Time) error {
	if e.Status == StatusTerminated {
		return ErrEmployeeTerminated
	}
	e.Status = StatusOffboarding
	e.SuspensionReason = reason
	e.IsActive = false
	e.offboardingChecklist = defaultOffboardingChecklist(now)
	startedAt := now
	e.OffboardingStartedAt = &startedAt
	e.touchAt(now)
	return nil
}

// InitiateOffboarding is InitiateOffboardingAt with the current
// wall-clock time.
func (e *Employee) InitiateOffboarding(reason string) error {
	return e.InitiateOffboardingAt(reason, time.Now().UTC())
}

// CompleteOffboardingTaskAt marks one exit task done. Completing the
// last one terminates the employee.
func (e *Employee) CompleteOffboardingTaskAt(code string, now time.Time) error {
	item := findChecklistItem(e.offboardingChecklist, code)
	if item == nil {
		return ErrChecklistItemNotFound
	}
	item.markCompletedAt(now)

	if e.IsOffboardingComplete() {
		completedAt := now
		e.OffboardingCompletedAt = &completedAt
		if err := e.TerminateAt("offboarding complete", now); err != nil {
			return err
		}
	}
	e.touchAt(now)
	return nil
}

// CompleteOffboardingTask is CompleteOffboardingTaskAt with the current
// wall-clock time.
func (e *Employee) CompleteOffboardingTask(code string) error {
	return e.CompleteOffboardingTaskAt(code, time.Now().UTC())
}

// TerminateAt ends the employment. Terminating twice is an error.
func (e *Employee) TerminateAt(reason string, now time.Time) error {
	if e.Status == StatusTerminated {
		return ErrEmployeeTerminated
	}
	e.Status = StatusTerminated
	e.SuspensionReason = reason
	terminationDate := now.Truncate(24 * time.Hour)
	e.TerminationDate = &terminationDate
	e.IsActive = false
	e.touchAt(now)
	return nil
}

// Terminate is TerminateAt with the current wall-clock time.
func (e *Employee) Terminate(reason string) error {
	return e.TerminateAt(reason, time.Now().UTC())
}

func findChecklistItem(items []ChecklistItem, code string) *ChecklistItem {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i := range items {
		if items[i].Code == code {
			return &items[i]
		}
	}
	return nil
}

func checklistComplete(items []ChecklistItem) bool {
	for i := range items {
		if !items[i].IsCompleted() {
			return false
		}
	}
	return true
}

// IsOnboardingComplete reports whether every onboarding task is done.
func (e *Employee) IsOnboardingComplete() bool {
	return checklistComplete(e.onboardingChecklist)
}

// IsOffboardingComplete reports whether every exit task is done.
func (e *Employee) IsOffboardingComplete() bool {
	return len(e.offboardingChecklist) > 0 && checklistComplete(e.offboardingChecklist)
}

// OnboardingChecklist returns a copy of the onboarding tasks.
func (e *Employee) OnboardingChecklist() []ChecklistItem {
	out := make([]ChecklistItem, len(e.onboardingChecklist))
	copy(out, e.onboardingChecklist)
	return out
}

// OffboardingChecklist returns a copy of the exit tasks.
func (e *Employee) OffboardingChecklist() []ChecklistItem {
	out := make([]ChecklistItem, len(e.offboardingChecklist))
	copy(out, e.offboardingChecklist)
	return out
}

// AddDocumentAt attaches document metadata to the employee. The version
// is one higher than the newest existing document of the same type.
func (e *Employee) AddDocumentAt(fileName string, typ DocumentType, storagePath string, sizeBytes int64, contentType string, now time.Time) (*Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrFileNameRequired
	}
	if strings.TrimSpace(storagePath) == "" {
		return nil, ErrStoragePathRequired
	}
	if sizeBytes <= 0 {
		return nil, ErrDocumentSizeNotPositive
	}

	version := 1
	for i := range e.documents {
		if e.documents[i].Type == typ && e.documents[i].Version >= version {
			version = e.documents[i].Version + 1
		}
	}

	doc := Document{
		ID:          uuid.New(),
		EmployeeID:  e.ID,
		FileName:    strings.TrimSpace(fileName),
		Type:        typ,
		StoragePath: strings.TrimSpace(storagePath),
		SizeBytes:   sizeBytes,
		ContentType: strings.TrimSpace(contentType),
		Version:     version,
		CreatedAt:   now,
	}
	e.documents = append(e.documents, doc)
	e.touchAt(now)

	stored := e.documents[len(e.documents)-1]
	return &stored, nil
}

// AddDocument is AddDocumentAt with the current wall-clock time.
func (e *Employee) AddDocument(fileName string, typ DocumentType, storagePath string, sizeBytes int64, contentType string) (*Document, error) {
	return e.AddDocumentAt(fileName, typ, storagePath, sizeBytes, contentType, time.Now().UTC())
}

// ArchiveDocumentAt retires a document. Archiving an already archived
// document is a no-op.
func (e *Employee) ArchiveDocumentAt(documentID uuid.UUID, reason string, now time.Time) error {
	doc := e.findDocument(documentID)
	if doc == nil {
		return ErrDocumentNotFound
	}
	doc.archiveAt(reason, now)
	e.touchAt(now)
	return nil
}

// ArchiveDocument is ArchiveDocumentAt with the current wall-clock time.
func (e *Employee) ArchiveDocument(documentID uuid.UUID, reason string) error {
	return e.ArchiveDocumentAt(documentID, reason, time.Now().UTC())
}

// ReplaceDocumentAt swaps the stored file behind a document and bumps
// its version. Archived documents cannot be replaced.
func (e *Employee) ReplaceDocumentAt(documentID uuid.UUID, fileName, storagePath string, sizeBytes int64, contentType string, now time.Time) error {
	doc := e.findDocument(documentID)
	if doc == nil {
		return ErrDocumentNotFound
	}
	if err := doc.replaceWith(strings.TrimSpace(fileName), strings.TrimSpace(storagePath), sizeBytes, strings.TrimSpace(contentType)); err != nil {
		return err
	}
	e.touchAt(now)
	return nil
}

// ReplaceDocument is ReplaceDocumentAt with the current wall-clock time.
func (e *Employee) ReplaceDocument(documentID uuid.UUID, fileName, storagePath string, sizeBytes int64, contentType string) error {
	return e.ReplaceDocumentAt(documentID, fileName, storagePath, sizeBytes, contentType, time.Now().UTC())
}

func (e *Employee) findDocument(id uuid.UUID) *Document {
	for i := range e.documents {
		if e.documents[i].ID == id {
			return &e.documents[i]
		}
	}
	return nil
}

// Documents returns a copy of the employee's document metadata.
func (e *Employee) Documents() []Document {
	out := make([]Document, len(e.documents))
	copy(out, e.documents)
	return out
}
