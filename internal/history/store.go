package history

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calcerr"
)

// ErrEmpty is returned by operations that need at least one record.
var ErrEmpty = errors.New("history is empty")

// LoadReport summarizes a Load.
type LoadReport struct {
	Loaded  int
	Skipped int
}

// Store holds the records of a session in insertion order. Memory is the
// source of truth; the file is written only by Save.
type Store struct {
	mu      sync.Mutex
	path    string
	codec   Codec
	log     *zap.Logger
	records []Record
}

// Option configures a Store.
type Option func(*Store)

// WithCodec selects the file format. The default is TextCodec.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns an empty store backed by path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, codec: TextCodec{}, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

// Codec is the file format in use.
func (s *Store) Codec() Codec { return s.codec }

// Append validates r, gives it an ID if it has none and adds it at the end.
func (s *Store) Append(r Record) (Record, error) {
	if err := r.Validate(); err != nil {
		return Record{}, calcerr.Validationf("history.append", "%v", err)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	n := len(s.records)
	s.mu.Unlock()
	s.log.Debug("record appended", zap.String("id", r.ID), zap.String("function", r.Function), zap.Int("count", n))
	return r, nil
}

// Records returns a copy of the records in order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len is the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Load replaces the in-memory records with the file contents. A missing
// file yields an empty history.
func (s *Store) Load() (LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.records = nil
		return LoadReport{}, nil
	}
	if err != nil {
		return LoadReport{}, calcerr.IOError("history.load", s.path, err)
	}
	defer f.Close()

	records, skipped, err := s.codec.Decode(f)
	if err != nil {
		return LoadReport{}, calcerr.IOError("history.load", s.path, err)
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}
	s.records = records
	report := LoadReport{Loaded: len(records), Skipped: skipped}
	if skipped > 0 {
		s.log.Warn("skipped malformed history blocks",
			zap.String("path", s.path), zap.Int("skipped", skipped), zap.Int("loaded", len(records)))
	} else {
		s.log.Info("history loaded", zap.String("path", s.path), zap.Int("loaded", len(records)))
	}
	return report, nil
}

// Save overwrites the file with every record.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return ErrEmpty
	}
	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, s.records); err != nil {
		return calcerr.IOError("history.save", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return calcerr.IOError("history.save", s.path, err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return calcerr.IOError("history.save", s.path, err)
	}
	s.log.Info("history saved", zap.String("path", s.path),
		zap.String("format", s.codec.Name()), zap.Int("records", len(s.records)))
	return nil
}

// Clear empties the history and removes the file if it exists.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return calcerr.IOError("history.clear", s.path, err)
	}
	s.log.Info("history cleared", zap.String("path", s.path))
	return nil
}

// ReadSaved returns the raw contents of the file.
func (s *Store) ReadSaved() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", calcerr.IOError("history.read", s.path, err)
	}
	return string(data), nil
}
