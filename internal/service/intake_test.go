package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileintake/internal/blob"
	"fileintake/internal/model"
	"fileintake/internal/storage"
)

var fixedNow = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

func newTestIntake(t *testing.T) (*IntakeService, *storage.Document, string) {
	t.Helper()
	dir := t.TempDir()
	docs := storage.NewDocument(filepath.Join(dir, "db.json"))
	uploadDir := filepath.Join(dir, "uploads")
	svc := NewIntakeService(docs, blob.NewStore(uploadDir))
	svc.now = func() time.Time { return fixedNow }
	return svc, docs, uploadDir
}

func upload(name, content string) Upload {
	return Upload{Name: name, Data: strings.NewReader(content)}
}

func TestSubmit(t *testing.T) {
	svc, docs, uploadDir := newTestIntake(t)

	stored, err := svc.Submit(context.Background(), "Asha", "555-1212",
		[]Upload{upload("invoice.pdf", "pdf bytes")})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102150405-invoice.pdf"}, stored)

	orders, err := docs.Load()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Asha", orders[0].Name)
	assert.Equal(t, "555-1212", orders[0].Phone)
	assert.Equal(t, model.StatusPending, orders[0].Status)
	assert.Equal(t, stored, orders[0].Files)
	assert.NotEmpty(t, orders[0].ID)

	data, err := os.ReadFile(filepath.Join(uploadDir, stored[0]))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestSubmitMultipleFiles(t *testing.T) {
	svc, docs, _ := newTestIntake(t)

	stored, err := svc.Submit(context.Background(), "Boris", "555-0000", []Upload{
		upload("model.png", "png"),
		upload("notes.txt", "txt"),
	})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	orders, err := docs.Load()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, stored, orders[0].Files)
}

func TestSubmitMissingField(t *testing.T) {
	svc, _, _ := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "", "555-1212", []Upload{upload("a.pdf", "x")})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Submit(context.Background(), "Asha", "", []Upload{upload("a.pdf", "x")})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSubmitNoFiles(t *testing.T) {
	svc, _, _ := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "Asha", "555-1212", nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestSubmitOnlyEmptyEntries(t *testing.T) {
	svc, _, _ := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "Asha", "555-1212", []Upload{upload("", "")})
	assert.ErrorIs(t, err, ErrNoValidFiles)
}

func TestSubmitUnsupportedFileType(t *testing.T) {
	svc, docs, uploadDir := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "Asha", "555-1212",
		[]Upload{upload("virus.exe", "mz")})

	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "virus.exe")
	assert.Contains(t, err.Error(), "pdf")

	orders, loadErr := docs.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, orders)

	_, statErr := os.Stat(uploadDir)
	assert.True(t, os.IsNotExist(statErr), "no blob should have been written")
}

func TestSubmitRejectedFileAbortsWholeBatch(t *testing.T) {
	svc, docs, uploadDir := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "Asha", "555-1212", []Upload{
		upload("good.pdf", "pdf"),
		upload("bad.exe", "mz"),
	})

	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "bad.exe", unsupported.Filename)

	orders, loadErr := docs.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, orders)

	_, statErr := os.Stat(uploadDir)
	assert.True(t, os.IsNotExist(statErr), "earlier files of the batch must not be left behind")
}

func TestSubmitExtensionCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestIntake(t)

	stored, err := svc.Submit(context.Background(), "Asha", "555-1212",
		[]Upload{upload("FILE.PDF", "x")})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102150405-file.pdf"}, stored)
}

func TestSubmitNoExtension(t *testing.T) {
	svc, _, _ := newTestIntake(t)

	_, err := svc.Submit(context.Background(), "Asha", "555-1212",
		[]Upload{upload("README", "x")})

	var unsupported *UnsupportedFileTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestStorageName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"invoice.pdf", "20240102150405-invoice.pdf"},
		{"FILE.PDF", "20240102150405-file.pdf"},
		{"my report.docx", "20240102150405-my-report.docx"},
		{"../../etc/passwd.txt", "20240102150405-passwd.txt"},
		{`C:\Users\me\photo.jpg`, "20240102150405-photo.jpg"},
		{"....png", "20240102150405-file.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StorageName(tt.original, fixedNow), "original %q", tt.original)
	}
}

func TestAllowedExtensionsStable(t *testing.T) {
	assert.Equal(t,
		[]string{"doc", "docx", "gif", "jpeg", "jpg", "pdf", "png", "txt"},
		AllowedExtensions())
}
