// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config loads the YAML-backed core configuration: which
// collision and overlap handlers to wire up, and the numeric constants
// they're parameterized by.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CollisionHandler names the outcome policy dispatched for a predicted
// (non-overlapping) contact.
type CollisionHandler string

const (
	CollisionNone         CollisionHandler = "none"
	CollisionPerfectMerge CollisionHandler = "perfect-merge"
	CollisionElasticBounce CollisionHandler = "elastic-bounce"
	CollisionMergeOrBounce CollisionHandler = "merge-or-bounce"
)

// OverlapHandler names the policy dispatched for a pair already found
// interpenetrating.
type OverlapHandler string

const (
	OverlapNone          OverlapHandler = "none"
	OverlapForceMerge    OverlapHandler = "force-merge"
	OverlapRepel         OverlapHandler = "repel"
	OverlapRepelOrMerge  OverlapHandler = "repel-or-merge"
	OverlapInternalBounce OverlapHandler = "internal-bounce"
	OverlapPassOrMerge   OverlapHandler = "pass-or-merge"
)

var collisionHandlers = map[CollisionHandler]bool{
	CollisionNone: true, CollisionPerfectMerge: true,
	CollisionElasticBounce: true, CollisionMergeOrBounce: true,
}

var overlapHandlers = map[OverlapHandler]bool{
	OverlapNone: true, OverlapForceMerge: true, OverlapRepel: true,
	OverlapRepelOrMerge: true, OverlapInternalBounce: true, OverlapPassOrMerge: true,
}

// Config is the core's YAML configuration surface, the struct form of
// spec.md's configuration keys table.
type Config struct {
	CollisionHandler CollisionHandler `yaml:"collision_handler"`
	OverlapHandler   OverlapHandler   `yaml:"overlap_handler"`

	AllowedOverlapRatio float64 `yaml:"allowed_overlap_ratio"`
	MaxBounces          int     `yaml:"max_bounces"`

	NormalRestitution  float64 `yaml:"normal_restitution"`
	TangentRestitution float64 `yaml:"tangent_restitution"`

	BounceMergeLimit   float64 `yaml:"bounce_merge_limit"`
	RotationMergeLimit float64 `yaml:"rotation_merge_limit"`

	RigidBody        bool    `yaml:"rigid_body"`
	MaxRotationAngle float64 `yaml:"max_rotation_angle"`

	SoftSpringConstant float64 `yaml:"soft_spring_constant"`
	SoftRestitution    float64 `yaml:"soft_restitution"`
}

// Default returns the configuration defaults spec.md's keys table implies
// when a key is absent from the YAML document.
func Default() Config {
	return Config{
		CollisionHandler:    CollisionPerfectMerge,
		OverlapHandler:      OverlapRepel,
		AllowedOverlapRatio: 1e-4,
		MaxBounces:          8,
		NormalRestitution:   1.0,
		TangentRestitution:  1.0,
		BounceMergeLimit:    1.0,
		RotationMergeLimit:  1.0,
		MaxRotationAngle:    0.05,
		SoftSpringConstant:  1.0,
		SoftRestitution:     0.8,
	}
}

// Load reads and validates a YAML configuration file at path, starting
// from Default and overlaying whatever keys the document sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse validates and unmarshals a YAML document, starting from Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: yaml %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks handler names and the combinations spec.md §7 calls out
// as contradictory. Configuration errors must surface here, at
// construction, never mid-step.
func (c *Config) Validate() error {
	if !collisionHandlers[c.CollisionHandler] {
		return fmt.Errorf("unknown collision handler %q", c.CollisionHandler)
	}
	if !overlapHandlers[c.OverlapHandler] {
		return fmt.Errorf("unknown overlap handler %q", c.OverlapHandler)
	}
	if c.CollisionHandler == CollisionNone && c.OverlapHandler != OverlapNone {
		return fmt.Errorf("overlap handler %q has no effect with collision handler none", c.OverlapHandler)
	}
	if c.MaxBounces < 0 {
		return fmt.Errorf("max_bounces must be non-negative, got %d", c.MaxBounces)
	}
	if c.AllowedOverlapRatio < 0 {
		return fmt.Errorf("allowed_overlap_ratio must be non-negative, got %f", c.AllowedOverlapRatio)
	}
	return nil
}
