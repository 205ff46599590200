package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fileintake/internal/blob"
)

// FileHandler serves a stored attachment by its storage name.
func FileHandler(blobs *blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		path, err := blobs.Path(name)
		if err != nil {
			switch {
			case errors.Is(err, blob.ErrInvalidName):
				http.Error(w, "invalid file name", http.StatusBadRequest)
			case errors.Is(err, fs.ErrNotExist):
				http.NotFound(w, r)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		http.ServeFile(w, r, path)
	}
}
