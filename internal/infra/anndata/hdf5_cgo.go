package anndata

// #cgo LDFLAGS: -lhdf5
// #cgo darwin CFLAGS: -I/usr/local/include
// #cgo darwin LDFLAGS: -L/usr/local/lib
// #cgo linux,!arm64 CFLAGS: -I/usr/local/include -I/usr/lib/x86_64-linux-gnu/hdf5/serial/include
// #cgo linux,!arm64 LDFLAGS: -L/usr/local/lib -L/usr/lib/x86_64-linux-gnu/hdf5/serial/
// #cgo linux,arm64 CFLAGS: -I/usr/local/include -I/usr/lib/aarch64-linux-gnu/hdf5/serial/include
// #cgo linux,arm64 LDFLAGS: -L/usr/local/lib -L/usr/lib/aarch64-linux-gnu/hdf5/serial/
// #include "hdf5.h"
import "C"

import (
	"unsafe"

	"gonum.org/v1/hdf5"
)

// isUnsigned reports whether an integer datatype stores unsigned values.
func isUnsigned(dtype *hdf5.Datatype) bool {
	return C.H5Tget_sign(C.hid_t(dtype.ID())) == C.H5T_SGN_NONE
}

// readVarStrings reads n variable-length strings from ds. HDF5 allocates
// every element; each one is copied into Go memory and released.
func readVarStrings(ds *hdf5.Dataset, n int) ([]string, error) {
	ptrs := make([]*C.char, n)
	err := ds.Read(&ptrs)
	defer func() {
		for _, p := range ptrs {
			if p != nil {
				C.H5free_memory(unsafe.Pointer(p))
			}
		}
	}()
	if err != nil {
		return nil, err
	}

	out := make([]string, n)
	for i, p := range ptrs {
		if p != nil {
			out[i] = C.GoString(p)
		}
	}
	return out, nil
}
