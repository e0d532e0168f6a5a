// Package upload validates uploaded résumés, keeps them on disk only for the
// duration of one analysis and sweeps leftovers.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
)

// ErrEmptyFile is returned for a zero-byte upload.
var ErrEmptyFile = errors.New("uploaded file is empty")

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]cv.Format{
	".pdf":  cv.FormatPDF,
	".docx": cv.FormatDOCX,
	".txt":  cv.FormatText,
}

// DisallowedExtensionError is returned for files outside the allow-list.
type DisallowedExtensionError struct {
	Filename string
}

func (e *DisallowedExtensionError) Error() string {
	return fmt.Sprintf("file type not allowed: %q (supported: pdf, docx, txt)", e.Filename)
}

// FormatFor returns the document format for an allowed filename.
func FormatFor(filename string) (cv.Format, error) {
	format, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", &DisallowedExtensionError{Filename: filename}
	}
	return format, nil
}

type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// WithTempFile saves r under a random name, hands the saved document to fn
// and removes the file on every exit path. Uploads over the size ceiling
// return *analysis.InputTooLargeError without calling fn.
func (s *Store) WithTempFile(r io.Reader, filename string, fn func(cv.Document) error) error {
	format, err := FormatFor(filename)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(path)

	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	if written > s.maxBytes {
		return &analysis.InputTooLargeError{Size: written, Limit: s.maxBytes}
	}
	if written == 0 {
		return ErrEmptyFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read saved upload: %w", err)
	}

	return fn(cv.Document{Data: data, Format: format})
}
