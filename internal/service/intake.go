package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"fileintake/internal/blob"
	"fileintake/internal/model"
	"fileintake/internal/storage"
)

var (
	ErrMissingField = errors.New("name and phone number are required")
	ErrNoFiles      = errors.New("no files selected")
	ErrNoValidFiles = errors.New("no valid files were uploaded")
)

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"doc":  {},
	"docx": {},
	"txt":  {},
}

type UnsupportedFileTypeError struct {
	Filename string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("file type not allowed: %s. Allowed types: %s",
		e.Filename, strings.Join(AllowedExtensions(), ", "))
}

// AllowedExtensions returns the extension allow-list in a stable order.
func AllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Upload is one file part of an intake submission.
type Upload struct {
	Name string
	Data io.Reader
}

type IntakeService struct {
	docs  *storage.Document
	blobs *blob.Store
	now   func() time.Time
}

func NewIntakeService(docs *storage.Document, blobs *blob.Store) *IntakeService {
	return &IntakeService{docs: docs, blobs: blobs, now: time.Now}
}

// Submit handles one intake submission end to end: validates the fields
// and every filename, stores the accepted attachments and appends exactly
// one pending order. All filenames are checked before any blob is
// written, so a rejected file never leaves earlier files of the same
// batch orphaned on disk.
func (s *IntakeService) Submit(ctx context.Context, name, phone string, uploads []Upload) ([]string, error) {
	if name == "" || phone == "" {
		return nil, ErrMissingField
	}
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	accepted := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		if u.Name == "" {
			continue
		}
		if !extensionAllowed(u.Name) {
			return nil, &UnsupportedFileTypeError{Filename: u.Name}
		}
		accepted = append(accepted, u)
	}
	if len(accepted) == 0 {
		return nil, ErrNoValidFiles
	}

	createdAt := s.now()
	stored := make([]string, 0, len(accepted))
	for _, u := range accepted {
		storageName := StorageName(u.Name, createdAt)
		if err := s.blobs.Save(storageName, u.Data); err != nil {
			s.discard(stored)
			return nil, fmt.Errorf("save attachment %s: %w", u.Name, err)
		}
		stored = append(stored, storageName)
	}

	order := model.Order{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Files:     stored,
		Status:    model.StatusPending,
		Timestamp: createdAt,
	}
	if err := s.docs.Append(order); err != nil {
		s.discard(stored)
		return nil, fmt.Errorf("record order: %w", err)
	}

	slog.Info("order received", "order_id", order.ID, "name", name, "files", len(stored))
	return stored, nil
}

// discard removes blobs written for a submission that failed after the
// fact, so the batch does not leave orphans behind.
func (s *IntakeService) discard(names []string) {
	for _, name := range names {
		if err := s.blobs.Remove(name); err != nil {
			slog.Error("failed to discard attachment", "name", name, "error", err)
		}
	}
}

func extensionAllowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// StorageName derives the on-disk name for an uploaded file: a timestamp
// prefix against collisions plus a slugged version of the client's base
// name, with directory components stripped.
func StorageName(original string, t time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return t.Format("20060102150405") + "-" + stem + "." + ext
}
