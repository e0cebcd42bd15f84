// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

// Options configure preprocessing.
type Options struct {
	// SkipScan enables skip arrays on leading index columns that lack an
	// equality key.
	SkipScan bool `yaml:"skip_scan"`
	// SkipPrefixCols caps the number of skip arrays synthesized for one scan.
	// Zero means no cap.
	SkipPrefixCols int `yaml:"skip_prefix_cols"`
	// PreferInclusive rewrites strict skip array bounds into inclusive ones
	// when the operator family offers skip support.
	PreferInclusive bool `yaml:"prefer_inclusive"`

	// Metrics, if set, is updated for every scan.
	Metrics *Metrics `yaml:"-"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		SkipScan:        true,
		PreferInclusive: true,
	}
}
