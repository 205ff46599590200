package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"fileintake/internal/service"
)

// UploadHandler accepts a multipart intake submission: form fields "name"
// and "phone" plus one or more "files[]" parts.
func UploadHandler(intakeSvc *service.IntakeService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeJSON(w, http.StatusRequestEntityTooLarge, response{Success: false, Message: "Upload too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid multipart form"})
			return
		}

		headers := r.MultipartForm.File["files[]"]
		uploads := make([]service.Upload, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				slog.Error("failed to open uploaded part", "filename", fh.Filename, "error", err)
				writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Server error"})
				return
			}
			defer f.Close()
			uploads = append(uploads, service.Upload{Name: fh.Filename, Data: f})
		}

		stored, err := intakeSvc.Submit(r.Context(), r.FormValue("name"), r.FormValue("phone"), uploads)
		if err != nil {
			var unsupported *service.UnsupportedFileTypeError
			switch {
			case errors.Is(err, service.ErrMissingField),
				errors.Is(err, service.ErrNoFiles),
				errors.Is(err, service.ErrNoValidFiles),
				errors.As(err, &unsupported):
				writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
			default:
				slog.Error("intake submission failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, response{
			Success: true,
			Files:   stored,
			Message: "Files uploaded successfully",
		})
	}
}
