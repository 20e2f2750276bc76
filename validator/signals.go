package validator

import (
	"maps"
	"math"
	"slices"
)

// GitHubActivity is the mean of the three raw code-activity counters
func GitHubActivity(github GitHubMetrics) float64 {
	total := github.Commits.Count + github.PullRequests.Merged + github.Issues.Closed
	return float64(total) / 3
}

// NearActivity is the mean of the two raw ledger-activity counters
func NearActivity(near NearMetrics) float64 {
	total := near.Transactions.Count + near.ContractCalls.Count
	return float64(total) / 2
}

// ActivityCorrelation returns min/max of the two activity levels, in [0, 1].
// Despite the name this is a magnitude ratio and not a statistical correlation; two idle sources yield 1.
func ActivityCorrelation(github GitHubMetrics, near NearMetrics) float64 {
	return activityRatio(GitHubActivity(github), NearActivity(near))
}

func activityRatio(a float64, b float64) float64 {
	maxActivity := math.Max(a, b)
	if maxActivity == 0 {
		return 1
	}

	return math.Min(a, b) / maxActivity
}

// GitHubUsers returns the sorted union of commit authors, pull request authors and issue participants
func GitHubUsers(github GitHubMetrics) []string {
	return union(github.Commits.Authors, github.PullRequests.Authors, github.Issues.Participants)
}

// NearUsers returns the sorted union of transaction senders and contract callers
func NearUsers(near NearMetrics) []string {
	return union(near.Transactions.UniqueUsers, near.ContractCalls.UniqueCallers)
}

// Discrepancy describes how far apart the two engaged user counts are
type Discrepancy struct {
	CountA     int
	CountB     int
	Difference int
	Allowed    float64
}

// Exceeded returns true if the difference is above the allowed margin
func (d Discrepancy) Exceeded() bool {
	return float64(d.Difference) > d.Allowed
}

// UserCountDiscrepancy compares the engaged user counts of the two snapshots
func UserCountDiscrepancy(github GitHubMetrics, near NearMetrics, maxUserDiffRatio float64) Discrepancy {
	countA := len(GitHubUsers(github))
	countB := len(NearUsers(near))

	diff := countA - countB
	if diff < 0 {
		diff = -diff
	}

	return Discrepancy{
		CountA:     countA,
		CountB:     countB,
		Difference: diff,
		Allowed:    float64(max(countA, countB)) * maxUserDiffRatio,
	}
}

func union(sets ...[]string) []string {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, id := range set {
			seen[id] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
