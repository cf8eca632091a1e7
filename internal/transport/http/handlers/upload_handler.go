package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hrterry/STImage-WebAPP/internal/usecases"
	pkgerrors "github.com/hrterry/STImage-WebAPP/pkg/errors"
	"github.com/hrterry/STImage-WebAPP/pkg/json"
)

const (
	fieldH5ADFile  = "h5ad_file"
	fieldImageFile = "image_file"
)

type uploadReq struct {
	H5ADFile  *multipart.FileHeader `json:"h5ad_file"`
	ImageFile *multipart.FileHeader `json:"image_file"`
}

type uploadResp struct {
	Message       string `json:"message"`
	H5ADFilename  string `json:"h5ad_filename"`
	ImageFilename string `json:"image_filename"`
}

func (req *uploadReq) Validate() error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.H5ADFile, validation.Required),
		validation.Field(&req.ImageFile, validation.Required),
	)
	var errs validation.Errors
	if errors.As(err, &errs) {
		return pkgerrors.NewValidationErrorFromOzzo(errs)
	}
	return err
}

func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

func (h *HTTPHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(h.MaxUploadMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		json.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := uploadReq{
		H5ADFile:  formFile(r.MultipartForm, fieldH5ADFile),
		ImageFile: formFile(r.MultipartForm, fieldImageFile),
	}
	if err := req.Validate(); err != nil {
		json.WriteDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h5adFile, err := req.H5ADFile.Open()
	if err != nil {
		internalError(w, r, fmt.Sprintf("An error occurred: %v", err), err)
		return
	}
	defer h5adFile.Close()

	imageFile, err := req.ImageFile.Open()
	if err != nil {
		internalError(w, r, fmt.Sprintf("An error occurred: %v", err), err)
		return
	}
	defer imageFile.Close()

	res, err := h.DatasetUseCase.Upload(r.Context(),
		usecases.Upload{Name: req.H5ADFile.Filename, Body: h5adFile},
		usecases.Upload{Name: req.ImageFile.Filename, Body: imageFile},
	)
	if err != nil {
		internalError(w, r, fmt.Sprintf("An error occurred: %v", err), err)
		return
	}

	json.Write(w, http.StatusOK, uploadResp{
		Message:       "Files uploaded successfully",
		H5ADFilename:  res.Dataset.Name,
		ImageFilename: res.Image.Name,
	})
}
