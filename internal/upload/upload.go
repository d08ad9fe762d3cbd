// Package upload stores the optional image attached to a content form.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/folio/internal/apperr"
	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes uploads into a local directory.
type Store struct {
	// Dir is the target directory; it is created on first use.
	Dir string
}

// NewStore returns a Store writing to dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save stores the file posted in field, if any, and returns its public
// reference. It returns "" and no error when no file was attached. Files
// that are too large or not images produce a validation outcome for field.
func (s *Store) Save(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", apperr.Invalid(map[string]string{field: "could not read uploaded file"})
	}
	defer file.Close()

	if header.Size > MaxImageSize {
		return "", apperr.Invalid(map[string]string{field: fmt.Sprintf("%s must be at most %d MB", field, MaxImageSize>>20)})
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.Invalid(map[string]string{field: "could not read uploaded file"})
	}
	ext, ok := imageTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", apperr.Invalid(map[string]string{field: fmt.Sprintf("%s must be a JPEG, PNG, GIF or WebP image", field)})
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", apperr.Internal(fmt.Errorf("create upload dir: %w", err))
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("create upload: %w", err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:n]), file)); err != nil {
		_ = os.Remove(dst.Name())
		return "", apperr.Internal(fmt.Errorf("write upload: %w", err))
	}
	return URLPrefix + name, nil
}

// Remove deletes a file previously returned by Save. References outside
// URLPrefix and files that are already gone are ignored.
func (s *Store) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, URLPrefix)
	if !ok || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
