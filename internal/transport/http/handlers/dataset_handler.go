package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hrterry/STImage-WebAPP/internal/domain/entity"
	"github.com/hrterry/STImage-WebAPP/pkg/json"
)

const datasetNotFound = "H5AD file not found."

type processResp struct {
	GeneNames   []string    `json:"gene_names"`
	Coordinates [][]float64 `json:"coordinates"`
}

type expressionResp struct {
	ExpressionValues []float64 `json:"expression_values"`
}

func (h *HTTPHandlers) ProcessDataset(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "h5adFilename")

	summary, err := h.DatasetUseCase.ProcessDataset(r.Context(), name)
	switch {
	case errors.Is(err, entity.ErrFileNotFound):
		json.WriteDetail(w, http.StatusNotFound, datasetNotFound)
		return
	case errors.Is(err, entity.ErrSpatialNotFound):
		json.WriteDetail(w, http.StatusBadRequest, "'spatial' key not found in .obsm of the h5ad file.")
		return
	case err != nil:
		internalError(w, r, fmt.Sprintf("Failed to process h5ad file: %v", err), err)
		return
	}

	resp := processResp{
		GeneNames:   summary.GeneNames,
		Coordinates: summary.Coordinates,
	}
	if resp.GeneNames == nil {
		resp.GeneNames = []string{}
	}
	if resp.Coordinates == nil {
		resp.Coordinates = [][]float64{}
	}

	json.Write(w, http.StatusOK, resp)
}

func (h *HTTPHandlers) GetExpression(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "h5adFilename")
	gene := pathParam(r, "geneName")

	values, err := h.DatasetUseCase.GetExpression(r.Context(), name, gene)
	switch {
	case errors.Is(err, entity.ErrFileNotFound):
		json.WriteDetail(w, http.StatusNotFound, datasetNotFound)
		return
	case errors.Is(err, entity.ErrGeneNotFound):
		json.WriteDetail(w, http.StatusNotFound, fmt.Sprintf("Gene '%s' not found.", gene))
		return
	case err != nil:
		internalError(w, r, fmt.Sprintf("Failed to get expression data: %v", err), err)
		return
	}

	if values == nil {
		values = []float64{}
	}
	json.Write(w, http.StatusOK, expressionResp{ExpressionValues: values})
}
