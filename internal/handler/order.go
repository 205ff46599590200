package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"fileintake/internal/model"
	"fileintake/internal/service"
	"fileintake/internal/storage"
)

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderSvc.List(r.Context())
		if err != nil {
			slog.Error("failed to list orders", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if orders == nil {
			orders = []model.Order{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

func CompleteOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := orderSvc.Complete(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Order not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Server error"})
			return
		}

		writeJSON(w, http.StatusOK, response{Success: true})
	}
}

func DeleteOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := orderSvc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Order not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "Server error"})
			return
		}

		writeJSON(w, http.StatusOK, response{Success: true})
	}
}

// DebugHandler reports the state of the orders document, mirroring the
// original admin debug endpoint.
func DebugHandler(orderSvc *service.OrderService, documentPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderSvc.List(r.Context())
		if err != nil {
			slog.Error("failed to load orders for debug", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		_, statErr := os.Stat(documentPath)
		writeJSON(w, http.StatusOK, map[string]any{
			"db_exists":  statErr == nil,
			"db_path":    documentPath,
			"data_count": len(orders),
		})
	}
}
