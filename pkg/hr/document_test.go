package hr_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/hr"
)

func TestEmployee_AddDocument(t *testing.T) {
	t.Parallel()

	t.Run("versioned per type", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		contract, err := e.AddDocumentAt("contract.pdf", hr.DocumentContract, "docs/contract-v1.pdf", 2048, "application/pdf", hireTime)
		require.NoError(t, err)
		assert.Equal(t, 1, contract.Version)
		assert.Equal(t, e.ID, contract.EmployeeID)

		passport, err := e.AddDocumentAt("passport.jpg", hr.DocumentIdentification, "docs/passport.jpg", 512, "image/jpeg", hireTime)
		require.NoError(t, err)
		// Versions are scoped per document type.
		assert.Equal(t, 1, passport.Version)

		contract2, err := e.AddDocumentAt("contract-signed.pdf", hr.DocumentContract, "docs/contract-v2.pdf", 4096, "application/pdf", hireTime)
		require.NoError(t, err)
		assert.Equal(t, 2, contract2.Version)

		assert.Len(t, e.Documents(), 3)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		_, err := e.AddDocumentAt("", hr.DocumentContract, "docs/x.pdf", 1, "application/pdf", hireTime)
		assert.ErrorIs(t, err, hr.ErrFileNameRequired)

		_, err = e.AddDocumentAt("x.pdf", hr.DocumentContract, " ", 1, "application/pdf", hireTime)
		assert.ErrorIs(t, err, hr.ErrStoragePathRequired)

		_, err = e.AddDocumentAt("x.pdf", hr.DocumentContract, "docs/x.pdf", 0, "application/pdf", hireTime)
		assert.ErrorIs(t, err, hr.ErrDocumentSizeNotPositive)
	})
}

func TestEmployee_ArchiveDocument(t *testing.T) {
	t.Parallel()

	t.Run("archive is idempotent", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		doc, err := e.AddDocumentAt("contract.pdf", hr.DocumentContract, "docs/contract.pdf", 2048, "application/pdf", hireTime)
		require.NoError(t, err)

		first := hireTime.Add(time.Hour)
		require.NoError(t, e.ArchiveDocumentAt(doc.ID, "superseded", first))

		got := e.Documents()[0]
		assert.True(t, got.IsArchived)
		assert.Equal(t, "superseded", got.ArchiveReason)
		require.NotNil(t, got.ArchivedAt)
		assert.Equal(t, first, *got.ArchivedAt)

		// Second archive is a no-op: reason and timestamp survive.
		require.NoError(t, e.ArchiveDocumentAt(doc.ID, "different reason", hireTime.Add(2*time.Hour)))
		got = e.Documents()[0]
		assert.Equal(t, "superseded", got.ArchiveReason)
		assert.Equal(t, first, *got.ArchivedAt)
	})

	t.Run("unknown document", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		err := e.ArchiveDocumentAt(uuid.New(), "x", hireTime)
		assert.ErrorIs(t, err, hr.ErrDocumentNotFound)
	})
}

func TestEmployee_ReplaceDocument(t *testing.T) {
	t.Parallel()

	t.Run("bumps version in place", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		doc, err := e.AddDocumentAt("contract.pdf", hr.DocumentContract, "docs/contract.pdf", 2048, "application/pdf", hireTime)
		require.NoError(t, err)

		require.NoError(t, e.ReplaceDocumentAt(doc.ID, "contract-amended.pdf", "docs/contract-amended.pdf", 3072, "application/pdf", hireTime.Add(time.Hour)))

		got := e.Documents()[0]
		assert.Equal(t, "contract-amended.pdf", got.FileName)
		assert.Equal(t, "docs/contract-amended.pdf", got.StoragePath)
		assert.Equal(t, int64(3072), got.SizeBytes)
		assert.Equal(t, 2, got.Version)
		// Same record, not a new one.
		assert.Equal(t, doc.ID, got.ID)
		assert.Len(t, e.Documents(), 1)
	})

	t.Run("archived documents cannot be replaced", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		doc, err := e.AddDocumentAt("contract.pdf", hr.DocumentContract, "docs/contract.pdf", 2048, "application/pdf", hireTime)
		require.NoError(t, err)
		require.NoError(t, e.ArchiveDocumentAt(doc.ID, "superseded", hireTime))

		err = e.ReplaceDocumentAt(doc.ID, "new.pdf", "docs/new.pdf", 1024, "application/pdf", hireTime)
		assert.ErrorIs(t, err, hr.ErrDocumentArchived)
	})

	t.Run("unknown document", func(t *testing.T) {
		t.Parallel()

		e := newTestEmployee(t)
		err := e.ReplaceDocumentAt(uuid.New(), "new.pdf", "docs/new.pdf", 1024, "application/pdf", hireTime)
		assert.ErrorIs(t, err, hr.ErrDocumentNotFound)
	})
}

func TestEmployee_DocumentsAreCopies(t *testing.T) {
	t.Parallel()

	e := newTestEmployee(t)
	_, err := e.AddDocumentAt("contract.pdf", hr.DocumentContract, "docs/contract.pdf", 2048, "application/pdf", hireTime)
	require.NoError(t, err)

	docs := e.Documents()
	docs[0].FileName = "mutated.pdf"

	assert.Equal(t, "contract.pdf", e.Documents()[0].FileName)
}

func TestDepartment(t *testing.T) {
	t.Parallel()

	_, err := hr.NewDepartment("  ")
	assert.ErrorIs(t, err, hr.ErrDepartmentNameRequired)

	d, err := hr.NewDepartment(" Operations ")
	require.NoError(t, err)
	assert.Equal(t, "Operations", d.Name)
	assert.True(t, d.IsActive)

	require.NoError(t, d.Rename("Warehouse Operations"))
	assert.Equal(t, "Warehouse Operations", d.Name)
	assert.ErrorIs(t, d.Rename(""), hr.ErrDepartmentNameRequired)

	d.Deactivate()
	assert.False(t, d.IsActive)
	d.Activate()
	assert.True(t, d.IsActive)
}
