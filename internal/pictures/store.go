package pictures

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"restaurant-admin/internal/domain"
)

// URLPrefix is the public path pictures are served under.
const URLPrefix = "uploads"

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps uploaded pictures in a local directory. References handed out
// look like "uploads/<name>" and map onto files in dir.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save copies r into a new file named after the current time and the
// extension of filename.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", domain.ValidationError{Field: "picture", Message: fmt.Sprintf("unsupported file type %q", ext)}
	}

	name := fmt.Sprintf("%d%s", s.now().UnixNano(), ext)
	full := filepath.Join(s.dir, name)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create picture: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = domain.ValidationError{Field: "picture", Message: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
	}
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return path.Join(URLPrefix, name), nil
}

// Remove deletes the file behind ref. Empty refs and missing files are not
// errors.
func (s *Store) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	name := filepath.Base(filepath.FromSlash(ref))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove picture: %w", err)
	}
	return nil
}
