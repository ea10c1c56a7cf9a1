// Package storage archives generated report artifacts on the local file
// system or in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/export"
)

// Ensure FileSystemArtifactStore implements ArtifactStore
var _ reportapp.ArtifactStore = (*FileSystemArtifactStore)(nil)

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid artifact key")

// FileSystemArtifactStore writes artifacts below a base directory.
// Files are written to a temp file in the target directory and renamed into
// place, so readers never observe a partial artifact.
type FileSystemArtifactStore struct {
	basePath string
	baseURL  string
	logger   *zap.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// FileSystemOption configures a FileSystemArtifactStore
type FileSystemOption func(*FileSystemArtifactStore)

// WithFileSystemLogger sets the logger
func WithFileSystemLogger(logger *zap.Logger) FileSystemOption {
	return func(s *FileSystemArtifactStore) {
		s.logger = logger
	}
}

// WithFileSystemClock overrides the clock used for the date directories
func WithFileSystemClock(now func() time.Time) FileSystemOption {
	return func(s *FileSystemArtifactStore) {
		s.now = now
	}
}

// WithIDGenerator overrides the generator of per-artifact directory ids
func WithIDGenerator(newID func() uuid.UUID) FileSystemOption {
	return func(s *FileSystemArtifactStore) {
		s.newID = newID
	}
}

// NewFileSystemArtifactStore creates the base directory if needed
func NewFileSystemArtifactStore(basePath, baseURL string, opts ...FileSystemOption) (*FileSystemArtifactStore, error) {
	if basePath == "" {
		return nil, errors.New("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	s := &FileSystemArtifactStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save stores the artifact under {year}/{month}/{id}/{filename} and returns
// its URL, or its relative path when no base URL is configured.
func (s *FileSystemArtifactStore) Save(ctx context.Context, artifact *export.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if artifact == nil || len(artifact.Data) == 0 {
		return "", errors.New("artifact is empty")
	}

	key := ArtifactKey(s.now(), s.newID(), artifact.Filename)
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(fullPath, artifact.Data); err != nil {
		return "", err
	}

	location := s.URL(key)
	s.logger.Info("Artifact stored",
		zap.String("path", fullPath),
		zap.Int("size", artifact.Size()),
		zap.String("location", location))
	return location, nil
}

// Open returns the artifact stored under key
func (s *FileSystemArtifactStore) Open(key string) (*os.File, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// CleanupOlderThan removes artifacts last modified before now - age
func (s *FileSystemArtifactStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	deleted := 0
	err := filepath.WalkDir(s.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return deleted, fmt.Errorf("cleanup walk failed: %w", err)
	}
	s.logger.Info("Artifact cleanup completed", zap.Int("deleted", deleted), zap.Duration("age", age))
	return deleted, nil
}

// URL returns the accessible URL for key
func (s *FileSystemArtifactStore) URL(key string) string {
	clean := filepath.ToSlash(filepath.Clean(key))
	if s.baseURL == "" {
		return clean
	}
	return s.baseURL + "/" + clean
}

// resolve maps key to an absolute path and rejects anything outside basePath
func (s *FileSystemArtifactStore) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if key == "" || filepath.IsAbs(clean) || containsDotDot(key) {
		s.logger.Warn("Blocked artifact key", zap.String("key", key))
		return "", ErrInvalidKey
	}
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.basePath, clean))
	if err != nil {
		return "", fmt.Errorf("failed to resolve artifact path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("Artifact path escape blocked", zap.String("key", key), zap.String("path", absPath))
		return "", ErrInvalidKey
	}
	return absPath, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	committed = true
	return nil
}

// ArtifactKey builds {year}/{month}/{id}/{filename}
func ArtifactKey(at time.Time, id uuid.UUID, filename string) string {
	return fmt.Sprintf("%d/%02d/%s/%s", at.Year(), at.Month(), id, filepath.Base(filename))
}

func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}
