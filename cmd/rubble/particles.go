// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gazed/rubble/math/lin"
	"github.com/gazed/rubble/storage"
)

// particleDoc is the YAML shape of an initial particle layout file,
// following the same yaml-tag convention as config.Config.
type particleDoc struct {
	Particles []struct {
		Position [3]float64 `yaml:"position"`
		Velocity [3]float64 `yaml:"velocity"`
		Radius   float64    `yaml:"radius"`
		Mass     float64    `yaml:"mass"`
	} `yaml:"particles"`
	Attractors []struct {
		Position [3]float64 `yaml:"position"`
		Mass     float64    `yaml:"mass"`
	} `yaml:"attractors"`
}

// loadParticles reads a YAML particle layout file into a freshly built
// Storage, one Add() per listed particle.
func loadParticles(path string) (*storage.Storage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}
	var doc particleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("particles: yaml %w", err)
	}

	s := storage.New(0)
	for _, p := range doc.Particles {
		i := s.Add()
		s.Positions().Value[i] = lin.V4{X: p.Position[0], Y: p.Position[1], Z: p.Position[2], W: p.Radius}
		s.Positions().Dt[i] = lin.V4{X: p.Velocity[0], Y: p.Velocity[1], Z: p.Velocity[2]}
		s.Masses().Value[i] = p.Mass
		s.Frames().Value[i] = *lin.NewM3I()
	}
	for _, a := range doc.Attractors {
		s.AddAttractor(lin.V3{X: a.Position[0], Y: a.Position[1], Z: a.Position[2]}, a.Mass)
	}
	return s, nil
}
