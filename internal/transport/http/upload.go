package http

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"ocpulse/internal/dataset"
	apierrors "ocpulse/internal/errors"
)

// multipartMemory caps how much of each upload is buffered in memory before
// spilling to disk.
const multipartMemory = 10 << 20

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// readUpload extracts one named multipart file and parses it into a dataset.
// A missing field returns (nil, nil) when optional, or an APIError otherwise.
func readUpload(r *http.Request, field string, required bool) (*dataset.Dataset, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if !required {
			return nil, nil
		}
		return nil, apierrors.MissingFileError(field)
	}
	defer file.Close()
	return parseUpload(file, header)
}

func parseUpload(file multipart.File, header *multipart.FileHeader) (*dataset.Dataset, error) {
	name := filepath.Base(header.Filename)
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, apierrors.ErrUnsupportedFile
	}
	ds, err := dataset.Read(file, name)
	if err != nil {
		return nil, apierrors.FileParseError(name, err)
	}
	return ds, nil
}
