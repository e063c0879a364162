// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import "testing"

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
collision_handler: elastic-bounce
max_bounces: 3
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CollisionHandler != CollisionElasticBounce {
		t.Errorf("CollisionHandler got %q want elastic-bounce", cfg.CollisionHandler)
	}
	if cfg.MaxBounces != 3 {
		t.Errorf("MaxBounces got %d want 3", cfg.MaxBounces)
	}
	// untouched keys keep the default.
	if cfg.OverlapHandler != OverlapRepel {
		t.Errorf("OverlapHandler got %q want the default %q", cfg.OverlapHandler, OverlapRepel)
	}
	if cfg.NormalRestitution != 1.0 {
		t.Errorf("NormalRestitution got %f want default 1.0", cfg.NormalRestitution)
	}
}

func TestParseFullDocument(t *testing.T) {
	cfg, err := Parse([]byte(`
collision_handler: perfect-merge
overlap_handler: repel
allowed_overlap_ratio: 0.0001
max_bounces: 8
normal_restitution: 1.0
tangent_restitution: 1.0
bounce_merge_limit: 1.0
rotation_merge_limit: 1.0
rigid_body: false
max_rotation_angle: 0.05
soft_spring_constant: 1.0
soft_restitution: 0.8
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CollisionHandler != CollisionPerfectMerge || cfg.OverlapHandler != OverlapRepel {
		t.Errorf("got %+v", cfg)
	}
}

func TestParseRejectsUnknownCollisionHandler(t *testing.T) {
	_, err := Parse([]byte(`collision_handler: explode`))
	if err == nil {
		t.Fatal("expected an error for an unknown collision handler")
	}
}

func TestParseRejectsUnknownOverlapHandler(t *testing.T) {
	_, err := Parse([]byte(`overlap_handler: explode`))
	if err == nil {
		t.Fatal("expected an error for an unknown overlap handler")
	}
}

func TestParseRejectsOverlapHandlerWithoutCollisionHandler(t *testing.T) {
	_, err := Parse([]byte(`
collision_handler: none
overlap_handler: repel
`))
	if err == nil {
		t.Fatal("expected an error for overlap_handler set alongside collision_handler none")
	}
}

func TestParseRejectsNegativeMaxBounces(t *testing.T) {
	_, err := Parse([]byte(`max_bounces: -1`))
	if err == nil {
		t.Fatal("expected an error for a negative max_bounces")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
