package worker

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
	"fileintake/internal/service"
	"fileintake/internal/storage"
)

func TestSweepRemovesOldOrphans(t *testing.T) {
	dir := t.TempDir()
	docs := storage.NewDocument(filepath.Join(dir, "db.json"))
	blobs := blob.NewStore(filepath.Join(dir, "uploads"))
	orderSvc := service.NewOrderService(docs, blobs)

	require.NoError(t, blobs.Save("referenced.pdf", strings.NewReader("x")))
	require.NoError(t, blobs.Save("orphan.pdf", strings.NewReader("y")))
	require.NoError(t, blobs.Save("fresh-orphan.pdf", strings.NewReader("z")))

	// Age the first two past the grace period.
	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"referenced.pdf", "orphan.pdf"} {
		path := filepath.Join(dir, "uploads", name)
		require.NoError(t, os.Chtimes(path, old, old))
	}

	require.NoError(t, docs.Append(model.Order{
		ID:     "a",
		Name:   "Asha",
		Phone:  "555-1212",
		Files:  []string{"referenced.pdf"},
		Status: model.StatusPending,
	}))

	s := NewSweeper(orderSvc, blobs)
	require.NoError(t, s.Sweep(context.Background()))

	_, err := blobs.Path("referenced.pdf")
	assert.NoError(t, err, "referenced blob must survive")

	_, err = blobs.Path("orphan.pdf")
	assert.True(t, os.IsNotExist(err), "old orphan must be removed")

	_, err = blobs.Path("fresh-orphan.pdf")
	assert.NoError(t, err, "orphan within the grace period must survive")
}
