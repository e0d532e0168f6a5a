package api

import (
	"errors"
	"net/http"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
	"cv-match/internal/upload"
	"cv-match/pkg/apierror"
)

// ErrMissingFile is returned when the upload has no "file" part.
var ErrMissingFile = errors.New("no file uploaded")

// MapError converts a pipeline error into the client-facing error. The
// message never carries internal detail.
func MapError(err error) *apierror.ApiError {
	var (
		disallowed  *upload.DisallowedExtensionError
		unsupported *cv.UnsupportedFormatError
		corrupt     *cv.CorruptDocumentError
		tooLarge    *analysis.InputTooLargeError
		maxBytes    *http.MaxBytesError
		catalog     *CatalogError
	)

	switch {
	case errors.Is(err, ErrMissingFile):
		return apierror.ErrBadRequest("no file uploaded")
	case errors.Is(err, upload.ErrEmptyFile):
		return apierror.ErrBadRequest("uploaded file is empty")
	case errors.As(err, &disallowed), errors.As(err, &unsupported):
		return apierror.ErrBadRequest("file type not allowed (supported: pdf, docx, txt)")
	case errors.As(err, &catalog):
		return apierror.ErrBadRequest("invalid catalog")
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return apierror.ErrTooLarge("file too large")
	case errors.As(err, &corrupt):
		return apierror.ErrUnprocessable("document could not be parsed")
	default:
		return apierror.ErrInternalServer()
	}
}
