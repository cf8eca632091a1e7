package anndata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSparseLayout(t *testing.T) {
	tests := []struct {
		name      string
		indptrLen int
		nObs      int
		nVars     int
		rowMajor  bool
		obs       int
		wantErr   bool
	}{
		{name: "csr", indptrLen: 4, nObs: 3, nVars: 5, rowMajor: true, obs: 3},
		{name: "csc", indptrLen: 6, nObs: 3, nVars: 5, rowMajor: false, obs: 3},
		{name: "square is csr", indptrLen: 3, nObs: 2, nVars: 2, rowMajor: true, obs: 2},
		{name: "unknown obs", indptrLen: 8, nObs: -1, nVars: 5, rowMajor: true, obs: 7},
		{name: "mismatch", indptrLen: 10, nObs: 3, nVars: 5, wantErr: true},
		{name: "empty indptr", indptrLen: 0, nObs: 3, nVars: 5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rowMajor, obs, err := sparseLayout(tt.indptrLen, tt.nObs, tt.nVars)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.rowMajor, rowMajor)
			require.Equal(t, tt.obs, obs)
		})
	}
}

func TestFixedString(t *testing.T) {
	require.Equal(t, "Actb", fixedString([]byte("Actb\x00\x00\x00")))
	require.Equal(t, "Gapdh", fixedString([]byte("Gapdh")))
	require.Equal(t, "", fixedString([]byte{0, 'x'}))
}

func TestElements(t *testing.T) {
	require.Equal(t, 1, elements(nil))
	require.Equal(t, 12, elements([]int{3, 4}))
	require.Equal(t, 0, elements([]int{0, 4}))
}
