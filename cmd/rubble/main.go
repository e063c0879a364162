// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command rubble runs a hard-sphere N-body collision simulation from a
// YAML configuration file and an initial particle layout, reporting
// collision statistics. The soft-sphere step cannot be selected from the
// command line.
//
// Usage:
//     rubble -config rubble.yaml -particles cloud.yaml -steps 1000 -dt 0.01
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gazed/rubble/collision"
	"github.com/gazed/rubble/config"
	"github.com/gazed/rubble/gravity"
	"github.com/gazed/rubble/integrator"
	"github.com/gazed/rubble/neighbor"
	"github.com/gazed/rubble/scheduler"
	"github.com/gazed/rubble/stats"
)

var (
	configPath   = flag.String("config", "rubble.yaml", "path to the YAML core configuration")
	particlePath = flag.String("particles", "", "path to the YAML initial particle layout (required)")
	steps        = flag.Int("steps", 100, "number of timesteps to run")
	dt           = flag.Float64("dt", 0.01, "timestep size")
	tree         = flag.Bool("tree", false, "use the Barnes-Hut tree gravity evaluator instead of direct summation")
	theta        = flag.Float64("theta", 0.5, "Barnes-Hut opening angle, only used with -tree")
	verbose      = flag.Bool("v", false, "log the running collision totals after each step")
)

func main() {
	flag.Parse()
	if *particlePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("rubble: %v", err)
	}

	s, err := loadParticles(*particlePath)
	if err != nil {
		log.Fatalf("rubble: %v", err)
	}

	it := buildIntegrator(cfg, s.Len())
	sink := &stats.Sink{}
	ctx := context.Background()

	if err := it.Run(ctx, s, sink, *dt, *steps); err != nil {
		log.Fatalf("rubble: %v", err)
	}

	fmt.Printf("ran %d steps: %d collisions (%d mergers, %d bounces, %d overlaps), %d particles remain\n",
		*steps, sink.Collisions, sink.Mergers, sink.Bounces, sink.Overlaps, s.Len())
}

func buildIntegrator(cfg *config.Config, n int) *integrator.Integrator {
	var gravEval gravity.Evaluator
	if *tree {
		gravEval = gravity.NewTree(*theta)
	} else {
		gravEval = gravity.NewDirect()
	}

	predictor := collision.NewContactPredictor(cfg.AllowedOverlapRatio)
	frame := collision.NewFrameIntegrator(cfg.MaxRotationAngle)

	collisionHandler := collisionHandlerFor(cfg)
	overlapHandler := overlapHandlerFor(cfg)

	finder := chooseFinder(n)

	step := collision.NewHardSphereStep(gravEval, finder, predictor, frame, collisionHandler, overlapHandler, cfg.MaxBounces)
	step.RigidBody = cfg.RigidBody
	step.Verbose = *verbose

	return integrator.New(scheduler.New(), step)
}

// chooseFinder picks the grid finder for small scenes and the k-d tree for
// larger ones, mirroring gravity's direct-vs-tree scale tradeoff.
func chooseFinder(n int) neighbor.Finder {
	const smallSceneThreshold = 64
	if n <= smallSceneThreshold {
		return neighbor.NewGrid(1.0)
	}
	return neighbor.NewKD()
}

func collisionHandlerFor(cfg *config.Config) collision.Handler {
	switch cfg.CollisionHandler {
	case config.CollisionNone:
		return nil
	case config.CollisionPerfectMerge:
		return collision.PerfectMerge
	case config.CollisionElasticBounce:
		return collision.ElasticBounce(cfg.NormalRestitution, cfg.TangentRestitution)
	case config.CollisionMergeOrBounce:
		return collision.MergeOrBounce(cfg.BounceMergeLimit, cfg.RotationMergeLimit, cfg.NormalRestitution, cfg.TangentRestitution)
	default:
		panic(fmt.Sprintf("rubble: unreachable collision handler %q (config.Validate should have rejected it)", cfg.CollisionHandler))
	}
}

func overlapHandlerFor(cfg *config.Config) collision.Handler {
	switch cfg.OverlapHandler {
	case config.OverlapNone:
		return nil
	case config.OverlapForceMerge:
		return collision.ForceMerge
	case config.OverlapRepel:
		return collision.Repel(cfg.NormalRestitution, cfg.TangentRestitution)
	case config.OverlapRepelOrMerge:
		return collision.RepelOrMerge(cfg.BounceMergeLimit, cfg.NormalRestitution, cfg.TangentRestitution)
	case config.OverlapInternalBounce:
		return collision.InternalBounce(cfg.NormalRestitution, cfg.TangentRestitution)
	case config.OverlapPassOrMerge:
		return collision.PassOrMerge(cfg.BounceMergeLimit)
	default:
		panic(fmt.Sprintf("rubble: unreachable overlap handler %q (config.Validate should have rejected it)", cfg.OverlapHandler))
	}
}
