// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func testState(bias float64) RidgeModelState {
	return RidgeModelState{
		FeatureNames: []string{"a", "b", "c"},
		Weights:      []float64{0.1, -0.2, 0.3},
		Intercept:    bias,
		Lambda:       1.0,
	}
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "models")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("NewStore returned nil")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("storage directory not created: %v", err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	meta := ModelMetadata{
		TrainedAt: time.Now(),
		Seed:      228,
		TrainRows: 90,
		TestRows:  10,
		RMSE:      0.12,
		MAE:       0.09,
		R2:        0.4,
	}
	saved, err := store.Save(ctx, RidgeModelName, 1, testState(0.5), meta)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.Checksum == "" {
		t.Error("Save did not compute a checksum")
	}
	if saved.SizeBytes <= 0 {
		t.Errorf("SizeBytes = %d, want > 0", saved.SizeBytes)
	}
	if saved.Name != RidgeModelName || saved.Version != 1 {
		t.Errorf("saved identity = %s v%d", saved.Name, saved.Version)
	}

	var loaded RidgeModelState
	got, err := store.Load(ctx, RidgeModelName, 1, &loaded)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Intercept != 0.5 || len(loaded.Weights) != 3 || loaded.Weights[1] != -0.2 {
		t.Errorf("loaded state = %+v", loaded)
	}
	if got.RMSE != 0.12 || got.Seed != 228 || got.TrainRows != 90 {
		t.Errorf("loaded metadata = %+v", got)
	}
}

func TestStore_SaveRejectsBadVersion(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := store.Save(context.Background(), RidgeModelName, 0, testState(0), ModelMetadata{}); err == nil {
		t.Error("expected error for version 0")
	}
}

func TestStore_LoadLatest(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 3; v++ {
		if _, err := store.Save(ctx, RidgeModelName, v, testState(float64(v)), ModelMetadata{}); err != nil {
			t.Fatalf("Save v%d failed: %v", v, err)
		}
	}

	var loaded RidgeModelState
	meta, err := store.Load(ctx, RidgeModelName, 0, &loaded)
	if err != nil {
		t.Fatalf("Load latest failed: %v", err)
	}
	if meta.Version != 3 || loaded.Intercept != 3 {
		t.Errorf("latest = v%d intercept %v, want v3 intercept 3", meta.Version, loaded.Intercept)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	var loaded RidgeModelState
	_, err = store.Load(context.Background(), RidgeModelName, 0, &loaded)
	if !errors.Is(err, ErrNoModel) {
		t.Errorf("Load on empty store = %v, want ErrNoModel", err)
	}
}

func TestStore_Versions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	if v := store.NextVersion(RidgeModelName); v != 1 {
		t.Errorf("NextVersion on empty store = %d, want 1", v)
	}
	if _, ok := store.GetLatestVersion(RidgeModelName); ok {
		t.Error("GetLatestVersion reported a version on an empty store")
	}

	for _, v := range []int{1, 2, 5} {
		if _, err := store.Save(ctx, RidgeModelName, v, testState(0), ModelMetadata{}); err != nil {
			t.Fatalf("Save v%d failed: %v", v, err)
		}
	}
	if v, ok := store.GetLatestVersion(RidgeModelName); !ok || v != 5 {
		t.Errorf("GetLatestVersion = %d, %v; want 5, true", v, ok)
	}
	if v := store.NextVersion(RidgeModelName); v != 6 {
		t.Errorf("NextVersion = %d, want 6", v)
	}

	// A fresh store over the same directory recovers the version map.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if v, ok := reopened.GetLatestVersion(RidgeModelName); !ok || v != 5 {
		t.Errorf("reopened latest = %d, %v; want 5, true", v, ok)
	}
}

func TestStore_ListVersions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 3; v++ {
		if _, err := store.Save(ctx, RidgeModelName, v, testState(0), ModelMetadata{RMSE: float64(v)}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListVersions(ctx, RidgeModelName)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListVersions returned %d entries, want 3", len(list))
	}
	for i, want := range []int{3, 2, 1} {
		if list[i].Version != want {
			t.Errorf("list[%d].Version = %d, want %d", i, list[i].Version, want)
		}
	}
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 5; v++ {
		if _, err := store.Save(ctx, RidgeModelName, v, testState(0), ModelMetadata{}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	removed, err := store.Prune(ctx, RidgeModelName, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Prune removed %d, want 3", removed)
	}

	list, err := store.ListVersions(ctx, RidgeModelName)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(list) != 2 || list[0].Version != 5 || list[1].Version != 4 {
		t.Errorf("remaining versions = %+v", list)
	}
}

func TestStore_ChecksumValidation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	state := testState(0)
	state.Weights = make([]float64, 512)
	for i := range state.Weights {
		state.Weights[i] = float64(i) * 0.01
	}
	if _, err := store.Save(ctx, RidgeModelName, 1, state, ModelMetadata{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, "ridge_v1.gob.gz")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read model file: %v", err)
	}
	data[len(data)-20] ^= 0xFF
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write corrupted file: %v", err)
	}

	var loaded RidgeModelState
	if _, err := store.Load(ctx, RidgeModelName, 1, &loaded); err == nil {
		t.Error("expected error loading corrupted model")
	}
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := store.Save(context.Background(), RidgeModelName, 1, testState(0), ModelMetadata{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

type recordingMirror struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *recordingMirror) Upload(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(body) == 0 {
		return errors.New("empty body")
	}
	m.keys = append(m.keys, key)
	return m.err
}

func TestStore_Mirror(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mirrorErr error
	}{
		{name: "upload succeeds"},
		{name: "upload failure does not fail save", mirrorErr: errors.New("bucket unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, err := NewStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewStore failed: %v", err)
			}
			mirror := &recordingMirror{err: tt.mirrorErr}
			store.SetMirror(mirror)

			if _, err := store.Save(context.Background(), RidgeModelName, 7, testState(0), ModelMetadata{}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if len(mirror.keys) != 1 || mirror.keys[0] != "ridge_v7.gob.gz" {
				t.Errorf("mirror keys = %v, want [ridge_v7.gob.gz]", mirror.keys)
			}
		})
	}
}

func TestParseModelFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		name     string
		version  int
		ok       bool
	}{
		{"ridge_v1.gob.gz", "ridge", 1, true},
		{"ridge_v12.gob.gz", "ridge", 12, true},
		{"my_model_v3.gob.gz", "my_model", 3, true},
		{"ridge_v0.gob.gz", "", 0, false},
		{"ridge_vx.gob.gz", "", 0, false},
		{"_v1.gob.gz", "", 0, false},
		{"ridge_v1.gob", "", 0, false},
		{".ridge_v1.gob.gz-123.tmp", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name, version, ok := parseModelFilename(tt.filename)
			if name != tt.name || version != tt.version || ok != tt.ok {
				t.Errorf("parseModelFilename(%q) = (%q, %d, %v), want (%q, %d, %v)",
					tt.filename, name, version, ok, tt.name, tt.version, tt.ok)
			}
		})
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Save(ctx, RidgeModelName, 1, testState(1), ModelMetadata{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			if _, err := store.Save(ctx, RidgeModelName, v+2, testState(float64(v)), ModelMetadata{}); err != nil {
				errCh <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			var loaded RidgeModelState
			if _, err := store.Load(ctx, RidgeModelName, 1, &loaded); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent operation failed: %v", err)
	}
	if v, _ := store.GetLatestVersion(RidgeModelName); v != 11 {
		t.Errorf("latest version = %d, want 11", v)
	}
}
