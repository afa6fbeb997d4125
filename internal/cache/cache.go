package cache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/commentgraph/commentgraph/internal/types"
)

const fileName = "pages.json"

// Store persists extracted page data between runs so unchanged snapshot
// folders are not re-parsed. The cache holds post-filter data only; the
// tally and every report can be rebuilt from it.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store rooted under dir.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{
		path:   filepath.Join(dir, fileName),
		logger: logger.With("component", "cache"),
	}
}

// Load returns the cached pages, or ok=false when no usable cache
// exists. A corrupt cache is a warning and falls back to re-parsing.
func (s *Store) Load() ([]types.Page, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}

	var pages []types.Page
	if err := json.Unmarshal(data, &pages); err != nil {
		s.logger.Warn("cache unreadable, reparsing snapshots", "path", s.path, "error", err)
		return nil, false
	}

	s.logger.Info("loaded pages from cache", "path", s.path, "pages", len(pages))
	return pages, true
}

// Save writes the extracted pages, atomically.
func (s *Store) Save(pages []types.Page) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &types.StorageError{Artifact: fileName, Err: err}
	}

	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return &types.StorageError{Artifact: fileName, Err: err}
	}
	if err := atomic.WriteFile(s.path, strings.NewReader(string(data))); err != nil {
		return &types.StorageError{Artifact: fileName, Err: err}
	}

	s.logger.Debug("cache saved", "path", s.path, "pages", len(pages))
	return nil
}
