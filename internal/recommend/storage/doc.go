// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

// Package storage persists trained scoring models.
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ModelMetadata, including holdout RMSE/MAE/R²)
//	  - CompressedData (gzip-compressed gob-encoded model state)
//
// The SHA-256 of the uncompressed state is stored in the metadata and
// verified on every Load. Files are written to a temp file in the same
// directory and renamed into place, so a crash mid-save never leaves a
// truncated model behind.
//
// # Usage
//
//	store, err := storage.NewStore("/data/models")
//	if err != nil {
//	    return err
//	}
//
//	state := storage.RidgeModelState{FeatureNames: layout, Weights: w, Intercept: b}
//	meta, err := store.Save(ctx, storage.RidgeModelName, store.NextVersion(storage.RidgeModelName), state, meta)
//
//	var loaded storage.RidgeModelState
//	meta, err = store.Load(ctx, storage.RidgeModelName, 0, &loaded) // 0 = latest
//
// # Retention
//
// Prune keeps the newest N versions of a model and removes the rest.
//
// # Mirroring
//
// SetMirror installs a Mirror that receives a copy of every saved file.
// S3Mirror implements it for any S3-compatible object store. Mirror
// failures are logged and counted but never fail a save.
package storage
