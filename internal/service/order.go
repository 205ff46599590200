package service

import (
	"context"
	"errors"
	"log/slog"

	"fileintake/internal/blob"
	"fileintake/internal/model"
	"fileintake/internal/storage"
)

type OrderService struct {
	docs  *storage.Document
	blobs *blob.Store
}

func NewOrderService(docs *storage.Document, blobs *blob.Store) *OrderService {
	return &OrderService{docs: docs, blobs: blobs}
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.docs.Load()
}

func (s *OrderService) Complete(ctx context.Context, id string) error {
	if err := s.docs.SetStatus(id, model.StatusCompleted); err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			slog.Error("failed to complete order", "order_id", id, "error", err)
		}
		return err
	}
	slog.Info("order completed", "order_id", id)
	return nil
}

// Delete removes the order record first and then its attachments. A
// missing attachment is tolerated; a failed removal is logged and left
// for the sweeper rather than failing the whole delete.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.docs.Delete(id)
	if err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			slog.Error("failed to delete order", "order_id", id, "error", err)
		}
		return err
	}

	for _, name := range order.Files {
		if err := s.blobs.Remove(name); err != nil {
			slog.Error("failed to remove attachment", "order_id", id, "name", name, "error", err)
		}
	}

	slog.Info("order deleted", "order_id", id, "files", len(order.Files))
	return nil
}
