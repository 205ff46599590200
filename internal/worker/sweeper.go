package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fileintake/internal/blob"
	"fileintake/internal/service"
)

// Sweeper periodically removes blobs that no order references. Blob and
// record writes are not transactional, so a crash between them can leave
// orphaned files behind; the sweeper closes that gap. Blobs younger than
// minAge are left alone because they may belong to a submission that is
// still in flight.
type Sweeper struct {
	orderSvc *service.OrderService
	blobs    *blob.Store
	interval time.Duration
	minAge   time.Duration
}

func NewSweeper(orderSvc *service.OrderService, blobs *blob.Store) *Sweeper {
	return &Sweeper{
		orderSvc: orderSvc,
		blobs:    blobs,
		interval: 10 * time.Minute,
		minAge:   time.Hour,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("starting orphan blob sweeper", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("orphan blob sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				slog.Error("orphan sweep failed", "error", err)
			}
		}
	}
}

func (s *Sweeper) Sweep(ctx context.Context) error {
	orders, err := s.orderSvc.List(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	referenced := make(map[string]struct{})
	for _, order := range orders {
		for _, name := range order.Files {
			referenced[name] = struct{}{}
		}
	}

	blobs, err := s.blobs.List()
	if err != nil {
		return fmt.Errorf("list blobs: %w", err)
	}

	for _, info := range blobs {
		if _, ok := referenced[info.Name]; ok {
			continue
		}
		if time.Since(info.ModTime) < s.minAge {
			continue
		}
		slog.Warn("removing orphan blob", "name", info.Name, "mod_time", info.ModTime)
		if err := s.blobs.Remove(info.Name); err != nil {
			slog.Error("failed to remove orphan blob", "name", info.Name, "error", err)
		}
	}

	return nil
}
