package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/secangkircinta/scug/internal/domain/entities"
	"github.com/secangkircinta/scug/internal/ports"
)

// FileStorage implements ports.ObjectStorage on an afero filesystem.
// Objects are addressed by slash-separated relative paths and stored
// under the same path from the filesystem root.
type FileStorage struct {
	fs      afero.Fs
	baseURL string
}

// NewFileStorage wraps an existing filesystem
func NewFileStorage(fsys afero.Fs, publicBaseURL string) *FileStorage {
	return &FileStorage{fs: fsys, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// NewOsStorage stores objects below root on the local disk
func NewOsStorage(root, publicBaseURL string) (*FileStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewFileStorage(afero.NewBasePathFs(osFs, root), publicBaseURL), nil
}

// NewMemoryStorage keeps objects in memory
func NewMemoryStorage(publicBaseURL string) *FileStorage {
	return NewFileStorage(afero.NewMemMapFs(), publicBaseURL)
}

// HTTPHandler serves stored objects read-only
func (s *FileStorage) HTTPHandler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(s.fs)).Dir("/"))
}

// Put writes the object to a temporary name and renames it into place so
// readers never observe a partial object.
func (s *FileStorage) Put(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return entities.NewStoreError("put object", err)
	}

	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return entities.NewStoreError("put object", err)
	}

	tmp := p + ".tmp-" + uuid.NewString()
	if err := afero.WriteReader(s.fs, tmp, body); err != nil {
		_ = s.fs.Remove(tmp)
		return entities.NewStoreError("put object", err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return entities.NewStoreError("put object", err)
	}

	return nil
}

// Delete removes the object; deleting a missing object succeeds
func (s *FileStorage) Delete(ctx context.Context, objectPath string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return entities.NewStoreError("delete object", err)
	}
	return nil
}

// PublicURL returns the address the object is served under
func (s *FileStorage) PublicURL(objectPath string) string {
	return s.baseURL + "/" + strings.TrimLeft(objectPath, "/")
}

// List returns every object below prefix
func (s *FileStorage) List(ctx context.Context, prefix string) ([]ports.ObjectInfo, error) {
	root, err := cleanPath(prefix)
	if err != nil {
		return nil, err
	}

	exists, err := afero.DirExists(s.fs, root)
	if err != nil {
		return nil, entities.NewStoreError("list objects", err)
	}
	if !exists {
		return []ports.ObjectInfo{}, nil
	}

	objects := []ports.ObjectInfo{}
	err = afero.Walk(s.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}
		objects = append(objects, ports.ObjectInfo{
			Path:    strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/"),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, entities.NewStoreError("list objects", err)
	}

	return objects, nil
}

// cleanPath rejects parent references and roots the object path at "/"
// inside the filesystem.
func cleanPath(p string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(p, "/"))
	if p == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", entities.NewValidationError("path", fmt.Sprintf("invalid object path %q", p))
	}
	return "/" + cleaned, nil
}
