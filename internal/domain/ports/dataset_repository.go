package ports

import (
	"context"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_dataset_repository.go -package=mocks . DatasetRepository

type DatasetRepository interface {
	// Get parses the named dataset from storage. It never caches.
	Get(ctx context.Context, name string) (entity.Dataset, error)
}
