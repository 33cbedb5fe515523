// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/restspot/internal/logging"
	"github.com/tomtom215/restspot/internal/metrics"
)

const modelExt = ".gob.gz"

// ErrNoModel is returned by Load when no version of the named model exists.
var ErrNoModel = errors.New("no stored model")

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model family, e.g. "ridge".
	Name string `json:"name"`

	// Version is monotonically increasing per name.
	Version int `json:"version"`

	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// Seed drove the holdout split.
	Seed int64 `json:"seed"`

	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`
	UserCount int `json:"user_count"`

	// Holdout quality.
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`

	// Checksum is the SHA-256 of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Mirror receives a copy of every saved model file.
type Mirror interface {
	Upload(ctx context.Context, key string, body []byte) error
}

// Store manages versioned model files in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex
	mirror  Mirror

	// latest version per model name
	versions map[string]int
}

// NewStore creates a new model store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	return s, nil
}

// SetMirror installs m as the destination for copies of saved models.
func (s *Store) SetMirror(m Mirror) {
	s.mu.Lock()
	s.mirror = m
	s.mu.Unlock()
}

// scanModels records the latest version of every model file in the directory.
func (s *Store) scanModels() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseModelFilename(entry.Name())
		if !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseModelFilename splits "ridge_v12.gob.gz" into ("ridge", 12).
func parseModelFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, modelExt)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// versionsOf lists every stored version of name, newest first.
func (s *Store) versionsOf(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, v, ok := parseModelFilename(entry.Name())
		if ok && n == name {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// encodeModel serializes data and fills the checksum and size in meta.
func encodeModel(data interface{}, meta *ModelMetadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}
	meta.SizeBytes = int64(compressed.Len())

	var file bytes.Buffer
	if err := gob.NewEncoder(&file).Encode(storedFile{Metadata: *meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, fmt.Errorf("encode model file: %w", err)
	}
	return file.Bytes(), nil
}

// writeAtomic writes body to path through a temp file in the same directory,
// so readers see either the old file or the complete new one.
func writeAtomic(path string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename model file: %w", err)
	}
	return nil
}

// Save stores data as version of name and returns the completed metadata.
// The file appears atomically. A configured mirror receives a copy; mirror
// failures are logged and do not fail the save.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ModelMetadata) (*ModelMetadata, error) {
	if version < 1 {
		return nil, fmt.Errorf("model version must be >= 1, got %d", version)
	}
	meta.Name = name
	meta.Version = version
	meta.SavedAt = time.Now().UTC()

	body, err := encodeModel(data, &meta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := writeAtomic(s.modelPath(name, version), body); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}
	mirror := s.mirror
	s.mu.Unlock()

	if mirror != nil {
		key := filepath.Base(s.modelPath(name, version))
		if err := mirror.Upload(ctx, key, body); err != nil {
			metrics.MirrorUploads.WithLabelValues("error").Inc()
			logging.Warn().Err(err).Str("key", key).Msg("Model mirror upload failed")
		} else {
			metrics.MirrorUploads.WithLabelValues("success").Inc()
		}
	}
	return &meta, nil
}

// readStoredFile decodes the outer file structure without touching the payload.
func (s *Store) readStoredFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.modelPath(name, version))
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// Load loads a model by name and version into target.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoModel, name)
		}
	}

	sf, err := s.readStoredFile(name, version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &sf.Metadata, nil
}

// GetLatestVersion returns the latest version number for a model.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// NextVersion returns the version the next Save of name should use.
func (s *Store) NextVersion(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[name] + 1
}

// ListVersions returns metadata for every stored version of name, newest first.
// Unreadable files are skipped.
func (s *Store) ListVersions(ctx context.Context, name string) ([]ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, err := s.versionsOf(name)
	if err != nil {
		return nil, err
	}
	out := make([]ModelMetadata, 0, len(versions))
	for _, v := range versions {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sf, err := s.readStoredFile(name, v)
		if err != nil {
			logging.Warn().Err(err).Str("model", name).Int("version", v).Msg("Skipping unreadable model file")
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Prune removes old model versions, keeping only the latest keepVersions.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}
	versions, err := s.versionsOf(name)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keepVersions; i < len(versions); i++ {
		if err := os.Remove(s.modelPath(name, versions[i])); err != nil {
			logging.Warn().Err(err).Str("model", name).Int("version", versions[i]).Msg("Failed to prune model version")
			continue
		}
		removed++
	}
	return removed, nil
}

// modelPath returns the file path for a model.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelExt))
}
