package model

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings indicates a settings field failed validation.
var ErrInvalidSettings = errors.New("invalid simulation settings")

// Settings configures a single firefighter simulation instance.
type Settings struct {
	// GraphName names the road graph to simulate on, resolved through the
	// graph catalog.
	GraphName string `json:"graph_name" yaml:"graph"`

	// StrategyName selects the containment strategy variant.
	StrategyName string `json:"strategy_name" yaml:"strategy"`

	// NumRoots is the number of nodes ignited at tick 0. Must not exceed the
	// node count of the graph; that is checked at engine construction.
	NumRoots int `json:"num_roots" yaml:"num_roots"`

	// NumFFs is the number of firefighters, i.e. nodes the strategy may
	// defend per decision round.
	NumFFs int `json:"num_ffs" yaml:"num_ffs"`

	// StrategyEvery is the tick cadence of containment decisions.
	StrategyEvery TimeUnit `json:"strategy_every" yaml:"strategy_every"`
}

// Validate checks the field-local invariants: names present, all counts
// positive. Graph-dependent checks happen where the graph is known.
func (s Settings) Validate() error {
	if s.GraphName == "" {
		return fmt.Errorf("%w: graph name must not be empty", ErrInvalidSettings)
	}
	if s.StrategyName == "" {
		return fmt.Errorf("%w: strategy name must not be empty", ErrInvalidSettings)
	}
	if s.NumRoots <= 0 {
		return fmt.Errorf("%w: num_roots must be positive, got %d", ErrInvalidSettings, s.NumRoots)
	}
	if s.NumFFs <= 0 {
		return fmt.Errorf("%w: num_ffs must be positive, got %d", ErrInvalidSettings, s.NumFFs)
	}
	if s.StrategyEvery == 0 {
		return fmt.Errorf("%w: strategy_every must be positive", ErrInvalidSettings)
	}
	return nil
}
