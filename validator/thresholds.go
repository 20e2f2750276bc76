package validator

import (
	"fmt"
	"math"
)

const (
	// DefaultMaxTimeDrift is the allowed distance between the two collection timestamps, in milliseconds (6h)
	DefaultMaxTimeDrift int64 = 6 * 60 * 60 * 1000
	// DefaultMinActivityCorrelation is the lowest accepted activity ratio
	DefaultMinActivityCorrelation = 0.3
	// DefaultMaxDataAge is the allowed age of a snapshot, in milliseconds (24h)
	DefaultMaxDataAge int64 = 24 * 60 * 60 * 1000
	// DefaultMaxUserDiffRatio is the fraction of the larger user count the two counts may differ by
	DefaultMaxUserDiffRatio = 0.5
)

// Thresholds holds the resolved limits the checks compare against. Durations are in milliseconds.
type Thresholds struct {
	MaxTimeDrift           int64   `json:"maxTimeDrift"`
	MinActivityCorrelation float64 `json:"minActivityCorrelation"`
	MaxDataAge             int64   `json:"maxDataAge"`
	MaxUserDiffRatio       float64 `json:"maxUserDiffRatio"`
}

// DefaultThresholds returns the default threshold table
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTimeDrift:           DefaultMaxTimeDrift,
		MinActivityCorrelation: DefaultMinActivityCorrelation,
		MaxDataAge:             DefaultMaxDataAge,
		MaxUserDiffRatio:       DefaultMaxUserDiffRatio,
	}
}

// ThresholdOverrides is a partial threshold table. A nil field keeps the default.
type ThresholdOverrides struct {
	MaxTimeDrift           *int64   `toml:"MaxTimeDrift" json:"maxTimeDrift,omitempty"`
	MinActivityCorrelation *float64 `toml:"MinActivityCorrelation" json:"minActivityCorrelation,omitempty"`
	MaxDataAge             *int64   `toml:"MaxDataAge" json:"maxDataAge,omitempty"`
	MaxUserDiffRatio       *float64 `toml:"MaxUserDiffRatio" json:"maxUserDiffRatio,omitempty"`
}

// Resolve overlays the set fields on top of the defaults
func (o ThresholdOverrides) Resolve() Thresholds {
	t := DefaultThresholds()
	if o.MaxTimeDrift != nil {
		t.MaxTimeDrift = *o.MaxTimeDrift
	}
	if o.MinActivityCorrelation != nil {
		t.MinActivityCorrelation = *o.MinActivityCorrelation
	}
	if o.MaxDataAge != nil {
		t.MaxDataAge = *o.MaxDataAge
	}
	if o.MaxUserDiffRatio != nil {
		t.MaxUserDiffRatio = *o.MaxUserDiffRatio
	}

	return t
}

// Check returns an error if any limit is negative or not a number
func (t Thresholds) Check() error {
	if t.MaxTimeDrift < 0 {
		return fmt.Errorf("%w: MaxTimeDrift is negative (%d)", ErrInvalidThreshold, t.MaxTimeDrift)
	}
	if t.MaxDataAge < 0 {
		return fmt.Errorf("%w: MaxDataAge is negative (%d)", ErrInvalidThreshold, t.MaxDataAge)
	}
	if math.IsNaN(t.MinActivityCorrelation) || t.MinActivityCorrelation < 0 {
		return fmt.Errorf("%w: MinActivityCorrelation is %v", ErrInvalidThreshold, t.MinActivityCorrelation)
	}
	if math.IsNaN(t.MaxUserDiffRatio) || t.MaxUserDiffRatio < 0 {
		return fmt.Errorf("%w: MaxUserDiffRatio is %v", ErrInvalidThreshold, t.MaxUserDiffRatio)
	}

	return nil
}
