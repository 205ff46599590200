package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"fileintake/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

// Document is the single source of truth for the order collection. The
// whole collection lives in one JSON array on disk and every mutation is
// a full read-modify-write cycle, serialized by mu so concurrent requests
// cannot lose each other's updates.
type Document struct {
	path string
	mu   sync.Mutex
}

func NewDocument(path string) *Document {
	return &Document{path: path}
}

// Load returns the current order collection. A missing document means an
// empty collection. A document that fails to parse is also treated as
// empty rather than an error, so a corrupted file never takes the service
// down; the corruption is logged loudly because orders become invisible.
func (d *Document) Load() ([]model.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

func (d *Document) Append(order model.Order) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	orders, err := d.read()
	if err != nil {
		return err
	}
	orders = append(orders, order)
	return d.write(orders)
}

func (d *Document) SetStatus(id, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	orders, err := d.read()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return d.write(orders)
		}
	}
	return ErrOrderNotFound
}

// Delete removes the order with the given id and returns it, so the
// caller can clean up the order's attachments.
func (d *Document) Delete(id string) (model.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	orders, err := d.read()
	if err != nil {
		return model.Order{}, err
	}
	for i := range orders {
		if orders[i].ID == id {
			removed := orders[i]
			orders = append(orders[:i], orders[i+1:]...)
			if err := d.write(orders); err != nil {
				return model.Order{}, err
			}
			return removed, nil
		}
	}
	return model.Order{}, ErrOrderNotFound
}

func (d *Document) read() ([]model.Order, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read orders document: %w", err)
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		slog.Error("orders document is corrupt, treating collection as empty",
			"path", d.path, "size", len(data), "error", err)
		return []model.Order{}, nil
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// write replaces the document atomically: the new collection is written
// to a temp file next to it and renamed over the old one, so a crash
// mid-write can never leave a half-written document behind.
func (d *Document) write(orders []model.Order) error {
	data, err := json.MarshalIndent(orders, "", "    ")
	if err != nil {
		return fmt.Errorf("encode orders document: %w", err)
	}

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create document directory: %w", err)
		}
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write orders document: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replace orders document: %w", err)
	}
	return nil
}
