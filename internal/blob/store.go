package blob

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var ErrInvalidName = errors.New("invalid file name")

// Store keeps attachment bytes in a flat directory. Names are assumed to
// be collision-free (the intake path prefixes them with a timestamp), so
// Save overwrites silently.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

type Info struct {
	Name    string
	ModTime time.Time
}

func (s *Store) Save(name string, r io.Reader) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return out.Close()
}

// Remove deletes the named blob. A blob that is already gone is not an
// error: the document and the upload directory are not transactionally
// linked and may drift.
func (s *Store) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("blob already absent", "name", name)
			return nil
		}
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Path returns the on-disk location of the named blob for serving. The
// blob must exist.
func (s *Store) Path(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload directory: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		infos = append(infos, Info{Name: entry.Name(), ModTime: fi.ModTime()})
	}
	return infos, nil
}

// resolve maps a client-visible name to a path inside the upload
// directory. Anything that is not a plain file name (path separators,
// "..", empty) is rejected so a request can never escape the directory.
func (s *Store) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}
