package anndata

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// child looks up a direct member of fg by name. The type is only
// meaningful when found is true.
func child(fg *hdf5.CommonFG, name string) (t hdf5.GType, found bool, err error) {
	n, err := fg.NumObjects()
	if err != nil {
		return t, false, err
	}
	for i := uint(0); i < n; i++ {
		objName, err := fg.ObjectNameByIndex(i)
		if err != nil {
			return t, false, err
		}
		if objName != name {
			continue
		}
		t, err = fg.ObjectTypeByIndex(i)
		if err != nil {
			return t, false, err
		}
		return t, true, nil
	}
	return t, false, nil
}

func shape(ds *hdf5.Dataset) ([]int, error) {
	space := ds.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(dims))
	for i, d := range dims {
		out[i] = int(d)
	}
	return out, nil
}

func elements(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// readNumeric reads every element of ds, converting from the stored
// integer or float type. The buffer handed to HDF5 must match the stored
// element size and sign, so the read is dispatched on the file datatype.
func readNumeric[U float64 | int](ds *hdf5.Dataset) ([]U, error) {
	dims, err := shape(ds)
	if err != nil {
		return nil, err
	}
	n := elements(dims)

	dtype, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()

	switch dtype.Class() {
	case hdf5.T_FLOAT:
		switch dtype.Size() {
		case 4:
			return readAs[float32, U](ds, n)
		case 8:
			return readAs[float64, U](ds, n)
		}
	case hdf5.T_INTEGER:
		if isUnsigned(dtype) {
			switch dtype.Size() {
			case 1:
				return readAs[uint8, U](ds, n)
			case 2:
				return readAs[uint16, U](ds, n)
			case 4:
				return readAs[uint32, U](ds, n)
			case 8:
				return readAs[uint64, U](ds, n)
			}
			break
		}
		switch dtype.Size() {
		case 1:
			return readAs[int8, U](ds, n)
		case 2:
			return readAs[int16, U](ds, n)
		case 4:
			return readAs[int32, U](ds, n)
		case 8:
			return readAs[int64, U](ds, n)
		}
	}
	return nil, fmt.Errorf("unsupported numeric datatype (class %d, %d bytes)", dtype.Class(), dtype.Size())
}

func readAs[T number, U float64 | int](ds *hdf5.Dataset, n int) ([]U, error) {
	out := make([]U, n)
	if n == 0 {
		return out, nil
	}
	buf := make([]T, n)
	if err := ds.Read(&buf); err != nil {
		return nil, err
	}
	for i, v := range buf {
		out[i] = U(v)
	}
	return out, nil
}

// readStrings reads a one-dimensional string dataset stored either with a
// fixed element size or as variable-length C strings.
func readStrings(ds *hdf5.Dataset) ([]string, error) {
	dims, err := shape(ds)
	if err != nil {
		return nil, err
	}
	n := elements(dims)

	dtype, err := ds.Datatype()
	if err != nil {
		return nil, err
	}
	defer dtype.Close()

	if dtype.Class() != hdf5.T_STRING {
		return nil, fmt.Errorf("expected string datatype, got class %d", dtype.Class())
	}

	out := make([]string, n)
	if n == 0 {
		return out, nil
	}

	vl := hdf5.VarLenType{Datatype: *dtype}
	if vl.IsVariableStr() {
		return readVarStrings(ds, n)
	}

	size := int(dtype.Size())
	raw := make([]byte, n*size)
	if err := ds.Read(&raw); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = fixedString(raw[i*size : (i+1)*size])
	}
	return out, nil
}

// fixedString decodes a null-padded or null-terminated element.
func fixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
