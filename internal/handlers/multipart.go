package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/media"
)

const multipartMemory = 8 << 20

// DefaultMaxUploadBytes bounds a multipart request when no limit is configured.
const DefaultMaxUploadBytes = 100 << 20

// uploadForm is a parsed multipart request. Close releases opened files and temporary storage.
type uploadForm struct {
	r      *http.Request
	opened []io.Closer
}

func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (*uploadForm, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: upload exceeds %d bytes", apperr.ErrInvalidInput, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: invalid multipart form: %v", apperr.ErrInvalidInput, err)
	}
	return &uploadForm{r: r}, nil
}

// File returns the named upload, or nil when the field is absent.
func (f *uploadForm) File(field string) (*media.File, error) {
	file, header, err := f.r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperr.ErrInvalidInput, field, err)
	}
	f.opened = append(f.opened, file)
	return &media.File{Name: header.Filename, Size: header.Size, Reader: file}, nil
}

// Value returns the named field and whether the client sent it.
func (f *uploadForm) Value(field string) (string, bool) {
	values, ok := f.r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (f *uploadForm) Close() {
	for _, c := range f.opened {
		_ = c.Close()
	}
	_ = f.r.MultipartForm.RemoveAll()
}
