// Package config holds the functional-options-constructed build
// configuration consumed by distree.Build, and parsed from flags by the
// octreectl command-line tool.
package config

import "github.com/flier/octree/morton"

// Build configures a single distributed (or local) tree construction.
type Build struct {
	LMax             uint8
	Balanced         bool
	BalanceMaxRounds int
	Workers          int
}

// Option configures a Build. Following the same options-on-struct idiom the
// rest of this module uses for its constructors.
type Option func(*Build)

// WithLMax overrides the finest encoding level. Clamped to morton.LMax by
// callers that encode points; Build itself only carries the value.
func WithLMax(level uint8) Option {
	return func(b *Build) { b.LMax = level }
}

// WithBalance turns on 2:1 balancing and sets the convergence round cap.
// maxRounds <= 0 selects the default cap of 8 rounds (see New).
func WithBalance(maxRounds int) Option {
	return func(b *Build) {
		b.Balanced = true
		b.BalanceMaxRounds = maxRounds
	}
}

// WithWorkers sets the worker pool size used for parallel relation-map
// construction. workers <= 0 means runtime.GOMAXPROCS(0) (internal/workpool's
// own default).
func WithWorkers(workers int) Option {
	return func(b *Build) { b.Workers = workers }
}

// New builds a Build from options, defaulting LMax to morton.LMax and
// BalanceMaxRounds to 8 when balancing is requested without an explicit cap.
func New(opts ...Option) Build {
	b := Build{LMax: morton.LMax}
	for _, opt := range opts {
		opt(&b)
	}
	if b.Balanced && b.BalanceMaxRounds <= 0 {
		b.BalanceMaxRounds = 8
	}
	return b
}
