package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FileStore is the contract the catalog needs from file storage: stage a
// file, get back a path-like reference, and delete by that reference.
// References look like /uploads/<folder>/<name> and double as retrieval URLs.
type FileStore interface {
	Store(src io.Reader, originalName, folder string) (string, error)
	Delete(ref string) error
}

// DiskStore keeps uploads under a local root directory, one sub-folder per
// entity type. File writes sit outside any database transaction; callers are
// responsible for deleting staged files when the surrounding operation fails.
type DiskStore struct {
	Root string // e.g. "uploads"
}

func NewDiskStore(root string) *DiskStore {
	if root == "" {
		root = "uploads"
	}
	return &DiskStore{Root: root}
}

func (d *DiskStore) Store(src io.Reader, originalName, folder string) (string, error) {
	dir := filepath.Join(d.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "write upload file")
	}

	return "/" + d.Root + "/" + folder + "/" + name, nil
}

// Delete removes the file behind ref. Missing files and malformed refs are
// ignored: cleanup is best-effort and must never fail the caller's response.
func (d *DiskStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	idx := strings.Index(ref, "/"+d.Root+"/")
	if idx < 0 {
		return nil
	}
	local := filepath.Clean(strings.TrimPrefix(ref[idx:], "/"))
	if !strings.HasPrefix(local, d.Root+string(os.PathSeparator)) {
		return nil
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete upload file")
	}
	return nil
}
