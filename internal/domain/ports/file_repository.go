package ports

import (
	"context"
	"io"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_file_repository.go -package=mocks . FileRepository

type FileRepository interface {
	// Create stores r under name, replacing any file with the same name.
	Create(ctx context.Context, name string, r io.Reader) (entity.FileMetadata, error)
	Get(ctx context.Context, name string) (entity.File, error)
	Exists(ctx context.Context, name string) (bool, error)
}
