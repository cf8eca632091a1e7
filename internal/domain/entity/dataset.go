package entity

import "gonum.org/v1/gonum/mat"

// SpatialKey is the obsm entry holding per-observation coordinates.
const SpatialKey = "spatial"

// Dataset is the parsed content of an annotated data file.
type Dataset struct {
	// GeneNames are the var names, in column order of X.
	GeneNames []string
	// X is indexed [observation, gene]. It is nil when the file has no X;
	// an X without observations or genes is an empty matrix.
	X mat.Matrix
	// Spatial holds one coordinate row per observation. It is nil when the
	// file has no spatial entry and empty when there are no observations.
	Spatial mat.Matrix
	NObs    int
}

type DatasetSummary struct {
	GeneNames   []string
	Coordinates [][]float64
}
