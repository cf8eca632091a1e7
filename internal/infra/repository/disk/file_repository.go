// Package repository stores uploaded files in a single flat directory on
// local disk, keyed by the client-supplied filename.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
)

type FileDiskRepository struct {
	dir string
}

// NewFileDiskRepository creates dir if needed.
func NewFileDiskRepository(dir string) (*FileDiskRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &FileDiskRepository{dir: dir}, nil
}

// Path returns the on-disk location of name. Names are not sanitized.
func (d *FileDiskRepository) Path(name string) string {
	return filepath.Join(d.dir, name)
}

func (d *FileDiskRepository) Dir() string {
	return d.dir
}

func (d *FileDiskRepository) Create(ctx context.Context, name string, r io.Reader) (entity.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return entity.FileMetadata{}, err
	}

	f, err := os.Create(d.Path(name))
	if err != nil {
		return entity.FileMetadata{}, err
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return entity.FileMetadata{}, fmt.Errorf("write %s: %w", name, err)
	}

	return entity.FileMetadata{Name: name, Size: n}, nil
}

func (d *FileDiskRepository) Get(ctx context.Context, name string) (entity.File, error) {
	if err := ctx.Err(); err != nil {
		return entity.File{}, err
	}

	data, err := os.ReadFile(d.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return entity.File{}, fmt.Errorf("%s: %w", name, entity.ErrFileNotFound)
	}
	if err != nil {
		return entity.File{}, err
	}

	return entity.File{
		Metadata: entity.FileMetadata{
			Name: name,
			Size: int64(len(data)),
		},
		Data: data,
	}, nil
}

func (d *FileDiskRepository) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(d.Path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
