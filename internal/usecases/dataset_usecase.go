package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/mat"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
	"github.com/hrterry/STImage-WebAPP/internal/domain/ports"
)

type DatasetUseCase struct {
	FileRepository    ports.FileRepository
	DatasetRepository ports.DatasetRepository
}

func NewDatasetUseCase(files ports.FileRepository, datasets ports.DatasetRepository) *DatasetUseCase {
	return &DatasetUseCase{
		FileRepository:    files,
		DatasetRepository: datasets,
	}
}

// Upload is one named payload of an upload request.
type Upload struct {
	Name string
	Body io.Reader
}

type UploadResult struct {
	Dataset entity.FileMetadata
	Image   entity.FileMetadata
}

// Upload stores the dataset, then the image. A failed image write leaves
// the dataset in place.
func (u *DatasetUseCase) Upload(ctx context.Context, dataset, image Upload) (UploadResult, error) {
	datasetMeta, err := u.FileRepository.Create(ctx, dataset.Name, dataset.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("save %s: %w", dataset.Name, err)
	}

	imageMeta, err := u.FileRepository.Create(ctx, image.Name, image.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("save %s: %w", image.Name, err)
	}

	slog.InfoContext(ctx, "files uploaded",
		"dataset", datasetMeta.Name, "dataset_size", humanize.Bytes(uint64(datasetMeta.Size)),
		"image", imageMeta.Name, "image_size", humanize.Bytes(uint64(imageMeta.Size)))

	return UploadResult{Dataset: datasetMeta, Image: imageMeta}, nil
}

func (u *DatasetUseCase) loadDataset(ctx context.Context, name string) (entity.Dataset, error) {
	exists, err := u.FileRepository.Exists(ctx, name)
	if err != nil {
		return entity.Dataset{}, err
	}
	if !exists {
		return entity.Dataset{}, fmt.Errorf("%s: %w", name, entity.ErrFileNotFound)
	}
	return u.DatasetRepository.Get(ctx, name)
}

// ProcessDataset returns every gene name and one coordinate row per
// observation.
func (u *DatasetUseCase) ProcessDataset(ctx context.Context, name string) (entity.DatasetSummary, error) {
	dataset, err := u.loadDataset(ctx, name)
	if err != nil {
		return entity.DatasetSummary{}, err
	}

	if dataset.Spatial == nil {
		return entity.DatasetSummary{}, fmt.Errorf("%s: %w", name, entity.ErrSpatialNotFound)
	}

	rows, _ := dataset.Spatial.Dims()
	coordinates := make([][]float64, rows)
	for i := range coordinates {
		coordinates[i] = mat.Row(nil, i, dataset.Spatial)
	}

	return entity.DatasetSummary{
		GeneNames:   dataset.GeneNames,
		Coordinates: coordinates,
	}, nil
}

func (u *DatasetUseCase) GetImage(ctx context.Context, name string) (entity.File, error) {
	file, err := u.FileRepository.Get(ctx, name)
	if err != nil {
		return entity.File{}, err
	}
	file.Metadata.MimeType = entity.ImageMimeType(name)
	return file, nil
}

// GetExpression returns the dense column of X for gene, one value per
// observation.
func (u *DatasetUseCase) GetExpression(ctx context.Context, name, gene string) ([]float64, error) {
	dataset, err := u.loadDataset(ctx, name)
	if err != nil {
		return nil, err
	}

	idx := slices.Index(dataset.GeneNames, gene)
	if idx < 0 {
		return nil, fmt.Errorf("%q: %w", gene, entity.ErrGeneNotFound)
	}

	if dataset.X == nil {
		return nil, fmt.Errorf("%s: %w", name, entity.ErrMatrixNotFound)
	}
	return mat.Col(nil, idx, dataset.X), nil
}
