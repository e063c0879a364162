// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package gravity supplies the Evaluator the collision core's Phase A
// consumes: a brute-force evaluator for small scenes and a Barnes-Hut
// tree evaluator for larger ones.
package gravity

import (
	"context"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/storage"
)

// G is the gravitational constant in the solver's internal unit system.
// Scenarios that need Newtonian SI units should rescale masses/positions
// rather than change this, keeping the constant fixed across a run.
const G = 1.0

// Evaluator is the gravity facade the collision core consumes.
type Evaluator interface {
	// Build (re)constructs whatever spatial structure the evaluator needs
	// from the current positions and masses in s.
	Build(ctx context.Context, pool *scheduler.Pool, s *storage.Storage) error
	// EvalSelfGravity adds the acceleration every particle exerts on every
	// other particle into acc, indexed the same as s's position column.
	EvalSelfGravity(ctx context.Context, pool *scheduler.Pool, s *storage.Storage, acc []lin.V3) error
	// EvalAttractors adds the acceleration of s's attractor list into acc.
	EvalAttractors(ctx context.Context, s *storage.Storage, acc []lin.V3) error
}
