package triage

import (
	"sort"
	"strings"
)

var titleStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true, "from": true,
	"in": true, "is": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true,
}

// pathAreas splits each file path on '/', drops empty segments, takes
// the first pathDepth segments, and re-joins them. The result set is
// deduplicated and sorted lexicographically.
func pathAreas(paths []string, pathDepth int) []string {
	seen := map[string]bool{}
	areas := make([]string, 0, len(paths))
	for _, p := range paths {
		segments := make([]string, 0, 4)
		for _, seg := range strings.Split(p, "/") {
			if seg == "" {
				continue
			}
			segments = append(segments, seg)
			if len(segments) == pathDepth {
				break
			}
		}
		if len(segments) == 0 {
			continue
		}
		area := strings.Join(segments, "/")
		if !seen[area] {
			seen[area] = true
			areas = append(areas, area)
		}
	}
	sort.Strings(areas)
	return areas
}

var nonTitleChar = func(r rune) bool {
	return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ')
}

// titleFingerprint lowercases, strips non-[a-z0-9 ] characters,
// collapses whitespace, drops short tokens and stop words, dedups,
// sorts, takes the first maxTitleTokens, and joins with single spaces.
func titleFingerprint(title string, minTokenLength, maxTokens int) string {
	lower := strings.ToLower(title)
	cleaned := strings.Map(func(r rune) rune {
		if nonTitleChar(r) {
			return ' '
		}
		return r
	}, lower)

	fields := strings.Fields(cleaned)
	seen := map[string]bool{}
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < minTokenLength {
			continue
		}
		if titleStopWords[tok] {
			continue
		}
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}

	sort.Strings(tokens)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}
	return strings.Join(tokens, " ")
}

// failureSignatures emits "{workflowLabel}::{stepLabel}" per job,
// preferring workflowPath/failedStepName over the name fallbacks,
// deduplicated and sorted.
func failureSignatures(runs []failureRunView) []string {
	seen := map[string]bool{}
	sigs := make([]string, 0, len(runs))
	for _, run := range runs {
		workflowLabel := run.WorkflowPath
		if workflowLabel == "" {
			workflowLabel = run.WorkflowName
		}
		for _, job := range run.Jobs {
			stepLabel := job.FailedStepName
			if stepLabel == "" {
				stepLabel = job.Name
			}
			sig := workflowLabel + "::" + stepLabel
			if !seen[sig] {
				seen[sig] = true
				sigs = append(sigs, sig)
			}
		}
	}
	sort.Strings(sigs)
	return sigs
}

// failureRunView is the minimal shape features.go needs, decoupled from
// providerapi so this file has no import beyond the standard library.
type failureRunView struct {
	WorkflowName string
	WorkflowPath string
	Jobs         []jobView
}

type jobView struct {
	Name           string
	FailedStepName string
}
