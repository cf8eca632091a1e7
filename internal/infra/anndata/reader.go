// Package anndata reads annotated data (.h5ad) files into entity.Dataset.
//
// Only the parts the service serves are loaded: the var index, the X
// matrix (dense, CSR or CSC) and obsm/spatial. X and obsm/spatial are
// optional. Every Get re-opens and re-parses the file.
package anndata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/hdf5"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
	"github.com/hrterry/STImage-WebAPP/pkg/sparse"
)

// Candidate names of the dataframe index column, in lookup order.
var indexNames = []string{"_index", "index"}

var errNoIndex = errors.New("no index column")

type Reader struct {
	dir string
}

// NewReader returns a Reader resolving dataset names inside dir.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

func (r *Reader) Get(ctx context.Context, name string) (entity.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return entity.Dataset{}, err
	}
	return ReadFile(filepath.Join(r.dir, name))
}

// ReadFile parses the .h5ad file at path.
func ReadFile(path string) (entity.Dataset, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	genes, err := readIndex(&f.CommonFG, "var")
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("read var names: %w", err)
	}

	nObs, err := indexLength(&f.CommonFG, "obs")
	if err != nil && !errors.Is(err, errNoIndex) {
		return entity.Dataset{}, fmt.Errorf("read obs index: %w", err)
	}
	if errors.Is(err, errNoIndex) {
		nObs = -1
	}

	spatial, err := readSpatial(&f.CommonFG)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("read obsm/%s: %w", entity.SpatialKey, err)
	}
	if nObs < 0 && spatial != nil {
		nObs, _ = spatial.Dims()
	}

	x, nObs, err := readX(&f.CommonFG, nObs, len(genes))
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("read X: %w", err)
	}
	if nObs < 0 {
		nObs = 0
	}

	return entity.Dataset{
		GeneNames: genes,
		X:         x,
		Spatial:   spatial,
		NObs:      nObs,
	}, nil
}

func openIndex(root *hdf5.CommonFG, frame string) (*hdf5.Dataset, error) {
	t, ok, err := child(root, frame)
	if err != nil {
		return nil, err
	}
	if !ok || t != hdf5.H5G_GROUP {
		return nil, fmt.Errorf("%s: %w", frame, errNoIndex)
	}

	g, err := root.OpenGroup(frame)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	for _, name := range indexNames {
		t, ok, err := child(&g.CommonFG, name)
		if err != nil {
			return nil, err
		}
		if ok && t == hdf5.H5G_DATASET {
			return g.OpenDataset(name)
		}
	}
	return nil, fmt.Errorf("%s: %w", frame, errNoIndex)
}

func readIndex(root *hdf5.CommonFG, frame string) ([]string, error) {
	ds, err := openIndex(root, frame)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	return readStrings(ds)
}

func indexLength(root *hdf5.CommonFG, frame string) (int, error) {
	ds, err := openIndex(root, frame)
	if err != nil {
		return 0, err
	}
	defer ds.Close()

	dims, err := shape(ds)
	if err != nil {
		return 0, err
	}
	return elements(dims), nil
}

// readSpatial returns nil, nil when obsm has no spatial entry.
func readSpatial(root *hdf5.CommonFG) (mat.Matrix, error) {
	t, ok, err := child(root, "obsm")
	if err != nil || !ok || t != hdf5.H5G_GROUP {
		return nil, err
	}

	obsm, err := root.OpenGroup("obsm")
	if err != nil {
		return nil, err
	}
	defer obsm.Close()

	t, ok, err = child(&obsm.CommonFG, entity.SpatialKey)
	if err != nil || !ok {
		return nil, err
	}
	if t != hdf5.H5G_DATASET {
		return nil, errors.New("not stored as an array")
	}

	ds, err := obsm.OpenDataset(entity.SpatialKey)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	dims, err := shape(ds)
	if err != nil {
		return nil, err
	}
	switch len(dims) {
	case 1:
		dims = append(dims, 1)
	case 2:
	default:
		return nil, fmt.Errorf("expected 2 dimensions, got %d", len(dims))
	}

	data, err := readNumeric[float64](ds)
	if err != nil {
		return nil, err
	}
	return newDense(dims[0], dims[1], data), nil
}

// newDense tolerates empty shapes, which mat.NewDense rejects.
func newDense(r, c int, data []float64) *mat.Dense {
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(r, c, data)
}

// readX returns the expression matrix and the observation count. nObs is
// negative when no other part of the file has fixed it. A file without X
// yields a nil matrix and nObs unchanged.
func readX(root *hdf5.CommonFG, nObs, nVars int) (mat.Matrix, int, error) {
	t, ok, err := child(root, "X")
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, nObs, nil
	}

	switch t {
	case hdf5.H5G_DATASET:
		ds, err := root.OpenDataset("X")
		if err != nil {
			return nil, 0, err
		}
		defer ds.Close()
		return readDenseX(ds, nObs, nVars)
	case hdf5.H5G_GROUP:
		g, err := root.OpenGroup("X")
		if err != nil {
			return nil, 0, err
		}
		defer g.Close()
		return readSparseX(g, nObs, nVars)
	default:
		return nil, 0, fmt.Errorf("unsupported object type %d", t)
	}
}

func readDenseX(ds *hdf5.Dataset, nObs, nVars int) (mat.Matrix, int, error) {
	dims, err := shape(ds)
	if err != nil {
		return nil, 0, err
	}
	if len(dims) != 2 {
		return nil, 0, fmt.Errorf("expected 2 dimensions, got %d", len(dims))
	}
	r, c := dims[0], dims[1]
	if c != nVars {
		return nil, 0, fmt.Errorf("has %d columns but var has %d names", c, nVars)
	}
	if nObs >= 0 && r != nObs {
		return nil, 0, fmt.Errorf("has %d rows but obs has %d entries", r, nObs)
	}
	if r == 0 || c == 0 {
		m, err := sparse.NewCSR(r, c, make([]int, r+1), nil, nil)
		return m, r, err
	}

	data, err := readNumeric[float64](ds)
	if err != nil {
		return nil, 0, err
	}
	return mat.NewDense(r, c, data), r, nil
}

func readSparseX(g *hdf5.Group, nObs, nVars int) (mat.Matrix, int, error) {
	var (
		indptr, indices []int
		data            []float64
	)
	for _, part := range []struct {
		name string
		read func(*hdf5.Dataset) error
	}{
		{"indptr", func(ds *hdf5.Dataset) (err error) { indptr, err = readNumeric[int](ds); return err }},
		{"indices", func(ds *hdf5.Dataset) (err error) { indices, err = readNumeric[int](ds); return err }},
		{"data", func(ds *hdf5.Dataset) (err error) { data, err = readNumeric[float64](ds); return err }},
	} {
		ds, err := g.OpenDataset(part.name)
		if err != nil {
			return nil, 0, fmt.Errorf("sparse %s: %w", part.name, err)
		}
		err = part.read(ds)
		ds.Close()
		if err != nil {
			return nil, 0, fmt.Errorf("sparse %s: %w", part.name, err)
		}
	}

	rowMajor, nObs, err := sparseLayout(len(indptr), nObs, nVars)
	if err != nil {
		return nil, 0, err
	}

	if rowMajor {
		m, err := sparse.NewCSR(nObs, nVars, indptr, indices, data)
		return m, nObs, err
	}
	m, err := sparse.NewCSC(nObs, nVars, indptr, indices, data)
	return m, nObs, err
}

// sparseLayout decides between CSR and CSC from the length of indptr. A
// square matrix is taken as CSR. When nObs is unknown the matrix is
// assumed to be CSR and nObs is taken from indptr.
func sparseLayout(indptrLen, nObs, nVars int) (rowMajor bool, obs int, err error) {
	if indptrLen == 0 {
		return false, 0, errors.New("empty indptr")
	}
	switch {
	case nObs < 0:
		return true, indptrLen - 1, nil
	case indptrLen == nObs+1:
		return true, nObs, nil
	case indptrLen == nVars+1:
		return false, nObs, nil
	default:
		return false, 0, fmt.Errorf("indptr length %d matches neither %d observations nor %d variables", indptrLen, nObs, nVars)
	}
}
