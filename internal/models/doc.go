// Restspot - Crowd-Rated Rest Spot Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/restspot

/*
Package models defines the data shared by the storage, recommendation and API
layers.

Key Components:

  - FeatureNames / Features: the fixed, ordered set of 15 place features
  - PlaceMetadata, EligiblePlace, VotedPlace, TrainingRow: storage read models
  - VoteSubmission, ExtractedPlace: the inbound vote contract
  - APIResponse, APIError: the HTTP envelope
  - ValidationError, TransientStorageError, SchemaError,
    InsufficientDataError, ArityMismatchError: the error taxonomy

A duplicate vote is not an error. It is reported as SubmitResult.Recorded ==
false and leaves every counter untouched.

Labels (town and type) are normalized with NormalizeLabel on the way in, so
allow-list filters can match them exactly.
*/
package models
