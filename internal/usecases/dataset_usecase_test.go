package usecases_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"gonum.org/v1/gonum/mat"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
	"github.com/hrterry/STImage-WebAPP/internal/domain/ports/mocks"
	"github.com/hrterry/STImage-WebAPP/internal/usecases"
	"github.com/hrterry/STImage-WebAPP/pkg/sparse"
)

func newUseCase(t *testing.T) (*usecases.DatasetUseCase, *mocks.MockFileRepository, *mocks.MockDatasetRepository) {
	ctrl := gomock.NewController(t)
	fileRepo := mocks.NewMockFileRepository(ctrl)
	datasetRepo := mocks.NewMockDatasetRepository(ctrl)
	return usecases.NewDatasetUseCase(fileRepo, datasetRepo), fileRepo, datasetRepo
}

// 3 observations x 2 genes, column Gapdh is mostly zero.
func testDataset(x mat.Matrix) entity.Dataset {
	return entity.Dataset{
		GeneNames: []string{"Actb", "Gapdh"},
		X:         x,
		Spatial:   mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		NObs:      3,
	}
}

func TestDatasetUseCase_Upload_Success(t *testing.T) {
	u, fileRepo, _ := newUseCase(t)

	gomock.InOrder(
		fileRepo.EXPECT().
			Create(gomock.Any(), "a.h5ad", gomock.Any()).
			DoAndReturn(func(ctx context.Context, name string, r io.Reader) (entity.FileMetadata, error) {
				data, _ := io.ReadAll(r)
				return entity.FileMetadata{Name: name, Size: int64(len(data))}, nil
			}),
		fileRepo.EXPECT().
			Create(gomock.Any(), "b.png", gomock.Any()).
			Return(entity.FileMetadata{Name: "b.png", Size: 4}, nil),
	)

	got, err := u.Upload(context.Background(),
		usecases.Upload{Name: "a.h5ad", Body: strings.NewReader("hdf")},
		usecases.Upload{Name: "b.png", Body: strings.NewReader("png!")},
	)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if got.Dataset.Name != "a.h5ad" || got.Dataset.Size != 3 {
		t.Fatalf("unexpected dataset metadata %+v", got.Dataset)
	}
	if got.Image.Name != "b.png" {
		t.Fatalf("expected b.png, got %q", got.Image.Name)
	}
}

func TestDatasetUseCase_Upload_ImageWriteFails(t *testing.T) {
	u, fileRepo, _ := newUseCase(t)

	fileRepo.EXPECT().
		Create(gomock.Any(), "a.h5ad", gomock.Any()).
		Return(entity.FileMetadata{Name: "a.h5ad"}, nil)
	fileRepo.EXPECT().
		Create(gomock.Any(), "b.png", gomock.Any()).
		Return(entity.FileMetadata{}, errors.New("disk full"))

	_, err := u.Upload(context.Background(),
		usecases.Upload{Name: "a.h5ad", Body: strings.NewReader("")},
		usecases.Upload{Name: "b.png", Body: strings.NewReader("")},
	)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected disk full error, got %v", err)
	}
}

func TestDatasetUseCase_ProcessDataset_Success(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().
		Get(gomock.Any(), "a.h5ad").
		Return(testDataset(mat.NewDense(3, 2, []float64{1, 0, 2, 0, 3, 4})), nil)

	got, err := u.ProcessDataset(context.Background(), "a.h5ad")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(got.GeneNames) != 2 {
		t.Fatalf("expected 2 genes, got %d", len(got.GeneNames))
	}
	if len(got.Coordinates) != 3 {
		t.Fatalf("expected 3 coordinate rows, got %d", len(got.Coordinates))
	}
	if got.Coordinates[2][0] != 5 || got.Coordinates[2][1] != 6 {
		t.Fatalf("unexpected last row %v", got.Coordinates[2])
	}
}

func TestDatasetUseCase_ProcessDataset_NotFound(t *testing.T) {
	u, fileRepo, _ := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "missing.h5ad").Return(false, nil)

	_, err := u.ProcessDataset(context.Background(), "missing.h5ad")
	if !errors.Is(err, entity.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDatasetUseCase_ProcessDataset_NoSpatial(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	ds := testDataset(nil)
	ds.Spatial = nil

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(ds, nil)

	_, err := u.ProcessDataset(context.Background(), "a.h5ad")
	if !errors.Is(err, entity.ErrSpatialNotFound) {
		t.Fatalf("expected ErrSpatialNotFound, got %v", err)
	}
}

func TestDatasetUseCase_ProcessDataset_ParserError(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(entity.Dataset{}, errors.New("truncated file"))

	_, err := u.ProcessDataset(context.Background(), "a.h5ad")
	if err == nil || errors.Is(err, entity.ErrFileNotFound) {
		t.Fatalf("expected parser error, got %v", err)
	}
}

func TestDatasetUseCase_GetExpression_SparseMatchesDense(t *testing.T) {
	dense := mat.NewDense(3, 2, []float64{
		1, 0,
		2, 0,
		3, 4,
	})
	csr, err := sparse.NewCSR(3, 2, []int{0, 1, 2, 4}, []int{0, 0, 0, 1}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("build csr: %v", err)
	}
	csc, err := sparse.NewCSC(3, 2, []int{0, 3, 4}, []int{0, 1, 2, 2}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("build csc: %v", err)
	}

	for _, x := range []mat.Matrix{dense, csr, csc} {
		u, fileRepo, datasetRepo := newUseCase(t)
		fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
		datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(testDataset(x), nil)

		got, err := u.GetExpression(context.Background(), "a.h5ad", "Gapdh")
		if err != nil {
			t.Fatalf("%T: expected nil err, got %v", x, err)
		}
		want := []float64{0, 0, 4}
		if len(got) != len(want) {
			t.Fatalf("%T: expected %d values, got %d", x, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%T: value %d: expected %v, got %v", x, i, want[i], got[i])
			}
		}
	}
}

func TestDatasetUseCase_GetExpression_UnknownGene(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(testDataset(mat.NewDense(3, 2, nil)), nil)

	_, err := u.GetExpression(context.Background(), "a.h5ad", "Xist")
	if !errors.Is(err, entity.ErrGeneNotFound) {
		t.Fatalf("expected ErrGeneNotFound, got %v", err)
	}
}

func TestDatasetUseCase_GetExpression_NoMatrix(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(testDataset(nil), nil)

	_, err := u.GetExpression(context.Background(), "a.h5ad", "Actb")
	if !errors.Is(err, entity.ErrMatrixNotFound) {
		t.Fatalf("expected ErrMatrixNotFound, got %v", err)
	}
}

func TestDatasetUseCase_GetExpression_NoObservations(t *testing.T) {
	u, fileRepo, datasetRepo := newUseCase(t)

	empty, err := sparse.NewCSR(0, 2, []int{0}, nil, nil)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	dataset := testDataset(empty)
	dataset.NObs = 0

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(true, nil)
	datasetRepo.EXPECT().Get(gomock.Any(), "a.h5ad").Return(dataset, nil)

	got, err := u.GetExpression(context.Background(), "a.h5ad", "Gapdh")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
}

func TestDatasetUseCase_GetExpression_MissingDataset(t *testing.T) {
	u, fileRepo, _ := newUseCase(t)

	fileRepo.EXPECT().Exists(gomock.Any(), "a.h5ad").Return(false, nil)

	_, err := u.GetExpression(context.Background(), "a.h5ad", "Actb")
	if !errors.Is(err, entity.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDatasetUseCase_GetImage_MimeType(t *testing.T) {
	u, fileRepo, _ := newUseCase(t)

	fileRepo.EXPECT().
		Get(gomock.Any(), "tissue.GIF").
		Return(entity.File{Metadata: entity.FileMetadata{Name: "tissue.GIF", Size: 3}, Data: []byte("gif")}, nil)

	got, err := u.GetImage(context.Background(), "tissue.GIF")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if got.Metadata.MimeType != entity.MimeTypeGIF {
		t.Fatalf("expected image/gif, got %q", got.Metadata.MimeType)
	}
}
