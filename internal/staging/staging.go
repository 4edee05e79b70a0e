package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

var (
	ErrInvalidFilename = errors.New("invalid upload filename")
	ErrInvalidScope    = errors.New("invalid staging scope id")
)

// Area is the root directory holding one scope per in-flight submission.
type Area struct {
	root   string
	maxDim int
	now    func() time.Time
}

// Options tune how staged files are written.
type Options struct {
	// MaxDimension bounds the width and height of staged JPEG/PNG photos.
	// Zero disables downscaling.
	MaxDimension int
}

// NewArea ensures root exists and returns an Area rooted there.
func NewArea(root string, opts Options) (*Area, error) {
	if root == "" {
		return nil, errors.New("staging root must be provided")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	return &Area{root: root, maxDim: opts.MaxDimension, now: time.Now}, nil
}

// Root returns the staging directory.
func (a *Area) Root() string {
	return a.root
}

// New opens a scope under a freshly generated id.
func (a *Area) New() (*Scope, error) {
	return a.Open(uuid.NewString())
}

// Open returns the scope for id, creating its directory when missing.
func (a *Area) Open(id string) (*Scope, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, id)
	}
	dir := filepath.Join(a.root, id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create scope %s: %w", id, err)
	}
	return &Scope{id: id, dir: dir, maxDim: a.maxDim}, nil
}

// Release removes the scope with id. Empty ids are ignored.
func (a *Area) Release(id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidScope, id)
	}
	return (&Scope{id: id, dir: filepath.Join(a.root, id)}).Release()
}

// Sweep removes scopes whose directories were last modified more than
// olderThan ago and reports how many were removed.
func (a *Area) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(a.root)
	if err != nil {
		return 0, fmt.Errorf("read staging root: %w", err)
	}
	cutoff := a.now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(a.root, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Scope is the staged attachment set of one submission.
type Scope struct {
	id     string
	dir    string
	maxDim int
}

func (s *Scope) ID() string {
	return s.id
}

func (s *Scope) Dir() string {
	return s.dir
}

// Clear deletes every file in the scope.
func (s *Scope) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read scope %s: %w", s.id, err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("clear scope %s: %w", s.id, err)
		}
	}
	return nil
}

// Stage writes every upload into the scope under its base name.
// Uploads sharing a name overwrite each other.
func (s *Scope) Stage(uploads []model.Upload) ([]model.Attachment, error) {
	staged := make([]model.Attachment, 0, len(uploads))
	for _, upload := range uploads {
		name, err := baseName(upload.Filename)
		if err != nil {
			return staged, err
		}
		path := filepath.Join(s.dir, name)
		if err := s.write(path, upload); err != nil {
			return staged, fmt.Errorf("stage %s: %w", name, err)
		}
		staged = append(staged, model.Attachment{Name: name, Path: path})
	}
	return staged, nil
}

func (s *Scope) write(path string, upload model.Upload) error {
	if upload.Open == nil {
		return errors.New("upload has no content")
	}
	rc, err := upload.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, Shrink(data, s.maxDim), 0o640)
}

// ListAll returns every staged file sorted by name.
func (s *Scope) ListAll() ([]model.Attachment, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list scope %s: %w", s.id, err)
	}
	files := make([]model.Attachment, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, model.Attachment{Name: entry.Name(), Path: filepath.Join(s.dir, entry.Name())})
	}
	return files, nil
}

// Release removes the scope directory and everything in it.
func (s *Scope) Release() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("release scope %s: %w", s.id, err)
	}
	return nil
}

// baseName strips any client supplied directory, including Windows paths.
func baseName(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.TrimSpace(name)
	switch name {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}
