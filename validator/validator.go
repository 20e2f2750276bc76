package validator

import "time"

// ArgsCrossSourceValidator is the argument DTO for NewCrossSourceValidator
type ArgsCrossSourceValidator struct {
	Overrides ThresholdOverrides
	Clock     func() time.Time
}

type crossSourceValidator struct {
	thresholds Thresholds
	clock      func() time.Time
}

// NewCrossSourceValidator resolves the thresholds once and returns a validator bound to them
func NewCrossSourceValidator(args ArgsCrossSourceValidator) (*crossSourceValidator, error) {
	thresholds := args.Overrides.Resolve()
	err := thresholds.Check()
	if err != nil {
		return nil, err
	}

	clock := args.Clock
	if clock == nil {
		clock = time.Now
	}

	return &crossSourceValidator{
		thresholds: thresholds,
		clock:      clock,
	}, nil
}

// Thresholds returns the resolved thresholds
func (v *crossSourceValidator) Thresholds() Thresholds {
	return v.thresholds
}

// Validate runs the cross-source checks on the pair. It never fails: problems are reported in the result.
func (v *crossSourceValidator) Validate(github GitHubMetrics, near NearMetrics) *ValidationResult {
	now := v.clock().UnixMilli()
	builder := &resultBuilder{}

	v.checkTimestampDrift(builder, github, near)
	v.checkFreshness(builder, now, "GitHub", github.CollectionTimestamp)
	v.checkFreshness(builder, now, "NEAR", near.CollectionTimestamp)
	v.checkActivityCorrelation(builder, github, near)
	v.checkUserEngagement(builder, github, near)

	return builder.build(now)
}

func (v *crossSourceValidator) checkTimestampDrift(builder *resultBuilder, github GitHubMetrics, near NearMetrics) {
	drift := github.CollectionTimestamp - near.CollectionTimestamp
	if drift < 0 {
		drift = -drift
	}
	if drift <= v.thresholds.MaxTimeDrift {
		return
	}

	builder.add(CodeTimestampDrift, "Time drift between GitHub and NEAR data exceeds threshold", map[string]interface{}{
		"drift": drift,
	})
}

func (v *crossSourceValidator) checkFreshness(builder *resultBuilder, now int64, source string, timestamp int64) {
	if now-timestamp <= v.thresholds.MaxDataAge {
		return
	}

	builder.add(CodeStaleData, source+" data is too old", map[string]interface{}{
		"timestamp": timestamp,
		"maxAge":    v.thresholds.MaxDataAge,
	})
}

func (v *crossSourceValidator) checkActivityCorrelation(builder *resultBuilder, github GitHubMetrics, near NearMetrics) {
	correlation := ActivityCorrelation(github, near)
	if correlation >= v.thresholds.MinActivityCorrelation {
		return
	}

	builder.add(CodeLowActivityCorrelation, "Low correlation between GitHub and NEAR activity", map[string]interface{}{
		"correlation": correlation,
		"threshold":   v.thresholds.MinActivityCorrelation,
	})
}

func (v *crossSourceValidator) checkUserEngagement(builder *resultBuilder, github GitHubMetrics, near NearMetrics) {
	discrepancy := UserCountDiscrepancy(github, near, v.thresholds.MaxUserDiffRatio)
	if !discrepancy.Exceeded() {
		return
	}

	builder.add(CodeUserCountDiscrepancy, "Significant discrepancy in user counts between GitHub and NEAR", map[string]interface{}{
		"countA":     discrepancy.CountA,
		"countB":     discrepancy.CountB,
		"difference": discrepancy.Difference,
		"threshold":  discrepancy.Allowed,
	})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (v *crossSourceValidator) IsInterfaceNil() bool {
	return v == nil
}
