package hr

import (
	"time"

	"github.com/google/uuid"
)

// Document is employee document metadata. The binary content lives in
// external storage; StoragePath points at it. Documents are never
// deleted, only archived, and archival is idempotent.
type Document struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	FileName    string
	Type        DocumentType
	StoragePath string
	SizeBytes   int64
	ContentType string

	// Version counts uploads of the same document type for one
	// employee, starting at 1.
	Version int

	IsArchived    bool
	ArchiveReason string

	CreatedAt  time.Time
	ArchivedAt *time.Time
	IssuedAt   *time.Time
	ExpiresAt  *time.Time
}

// archiveAt retires the document. Archiving an archived document is a
// no-op so the original reason and timestamp survive.
func (d *Document) archiveAt(reason string, now time.Time) {
	if d.IsArchived {
		return
	}
	d.IsArchived = true
	d.ArchiveReason = reason
	archivedAt := now
	d.ArchivedAt = &archivedAt
}

// replaceWith swaps the stored file behind the same document record and
// bumps the version. Archived documents cannot be replaced.
func (d *Document) replaceWith(fileName, storagePath string, sizeBytes int64, contentType string) error {
	if d.IsArchived {
		return ErrDocumentArchived
	}
	if fileName == "" {
		return ErrFileNameRequired
	}
	if storagePath == "" {
		return ErrStoragePathRequired
	}
	if sizeBytes <= 0 {
		return ErrDocumentSizeNotPositive
	}

	d.FileName = fileName
	d.StoragePath = storagePath
	d.SizeBytes = sizeBytes
	d.ContentType = contentType
	d.Version++
	return nil
}
