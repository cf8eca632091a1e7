package entity

import "errors"

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrGeneNotFound    = errors.New("gene not found")
	ErrSpatialNotFound = errors.New("spatial key not found in obsm")
	ErrMatrixNotFound  = errors.New("X matrix not found")
)
