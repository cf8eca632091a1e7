package entity

import (
	"path/filepath"
	"strings"
)

type FileMetadata struct {
	Name     string
	MimeType string
	Size     int64
}

type File struct {
	Metadata FileMetadata
	Data     []byte
}

const (
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeJPEG = "image/jpeg"
)

// ImageMimeType infers the media type of an image from its extension alone.
// Anything that is not a PNG or GIF is served as JPEG.
func ImageMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return MimeTypePNG
	case ".gif":
		return MimeTypeGIF
	default:
		return MimeTypeJPEG
	}
}
