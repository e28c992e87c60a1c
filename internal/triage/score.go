package triage

import "math"

// contribution computes clamp(value, 0, cap) / cap * weight, rounded to
// 3 decimals. A non-positive cap contributes zero.
func contribution(value int, cap int, weight float64) float64 {
	if cap <= 0 {
		return 0
	}
	v := float64(value)
	if v < 0 {
		v = 0
	}
	if v > float64(cap) {
		v = float64(cap)
	}
	return round3(v / float64(cap) * weight)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// score fills in Breakdown, RiskPoints, PriorityScore, and TrustScore
// for one scored pull request, given the scoring caps and weights.
func score(item *ScoredPullRequest, cfg *Config) {
	caps := cfg.Scoring.Caps
	weights := cfg.Scoring.Weights

	b := Breakdown{
		FailingRuns:        contribution(item.FailingRuns, caps.FailingRuns, weights.FailingRuns),
		UnresolvedComments: contribution(item.UnresolvedComments, caps.UnresolvedComments, weights.UnresolvedComments),
		ChangedFiles:       contribution(item.ChangedFiles, caps.ChangedFiles, weights.ChangedFiles),
		LinesChanged:       contribution(item.LinesChanged, caps.LinesChanged, weights.LinesChanged),
		DuplicatePeers:     contribution(item.DuplicatePeers, caps.DuplicatePeers, weights.DuplicatePeers),
	}
	item.Breakdown = b

	risk := round3(b.FailingRuns + b.UnresolvedComments + b.ChangedFiles + b.LinesChanged + b.DuplicatePeers)
	item.RiskPoints = risk

	priority := int(math.Round(risk))
	if priority < 0 {
		priority = 0
	}
	if priority > 100 {
		priority = 100
	}
	item.PriorityScore = priority
	item.TrustScore = 100 - priority
}
