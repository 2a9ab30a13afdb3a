package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const extension = ".json"

// Store reads and writes one document per locale under a directory.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of the document for locale.
func (s *Store) Path(locale string) string {
	return filepath.Join(s.dir, locale+extension)
}

// Exists reports whether a document for locale is present.
func (s *Store) Exists(locale string) (bool, error) {
	return afero.Exists(s.fs, s.Path(locale))
}

// Load returns the document for locale, or an empty document when the file
// does not exist.
func (s *Store) Load(locale string) (*Document, error) {
	path := s.Path(locale)
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		return New(), nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the whole document through a temporary file and a rename, so
// a failed write never leaves a truncated document behind.
func (s *Store) Save(locale string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+locale+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, s.Path(locale)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.Path(locale), err)
	}
	return nil
}

// Locales lists the locale identifiers of every document in the directory,
// sorted. Hidden files and non-JSON files are ignored.
func (s *Store) Locales() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var locales []string
	for _, fi := range infos {
		name := fi.Name()
		if fi.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != extension {
			continue
		}
		locales = append(locales, strings.TrimSuffix(name, extension))
	}
	sort.Strings(locales)
	return locales, nil
}
