package repository

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
)

// FileMemoryRepository keeps uploaded files in process memory. Nothing
// survives a restart.
type FileMemoryRepository struct {
	mu    sync.RWMutex
	files map[string]entity.File
}

func NewFileMemoryRepository() *FileMemoryRepository {
	return &FileMemoryRepository{files: make(map[string]entity.File)}
}

func cloneFile(f entity.File) entity.File {
	f.Data = append([]byte(nil), f.Data...)
	return f
}

func (m *FileMemoryRepository) Create(ctx context.Context, name string, r io.Reader) (entity.FileMetadata, error) {
	if err := ctx.Err(); err != nil {
		return entity.FileMetadata{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return entity.FileMetadata{}, fmt.Errorf("CREATE: read %s: %w", name, err)
	}

	file := entity.File{
		Metadata: entity.FileMetadata{
			Name: name,
			Size: int64(len(data)),
		},
		Data: data,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[name] = file
	return file.Metadata, nil
}

func (m *FileMemoryRepository) Get(ctx context.Context, name string) (entity.File, error) {
	if err := ctx.Err(); err != nil {
		return entity.File{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[name]
	if !exists {
		return entity.File{}, fmt.Errorf("GET: %s: %w", name, entity.ErrFileNotFound)
	}
	return cloneFile(file), nil
}

func (m *FileMemoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.files[name]
	return exists, nil
}
