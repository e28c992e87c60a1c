package triage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathAreas_DepthAndDedup(t *testing.T) {
	areas := pathAreas([]string{
		"internal/triage/engine.go",
		"internal/triage/score.go",
		"internal/config/config.go",
		"//",
	}, 2)
	require.Equal(t, []string{"internal/config", "internal/triage"}, areas)
}

func TestTitleFingerprint_DropsStopWordsAndShortTokens(t *testing.T) {
	fp := titleFingerprint("Fix the flaky retry in a worker pool", 3, 6)
	require.Equal(t, "fix flaky pool retry worker", fp)
}

func TestTitleFingerprint_EmptyWhenNoTokensSurvive(t *testing.T) {
	fp := titleFingerprint("a an is of", 3, 6)
	require.Equal(t, "", fp)
}

func TestFailureSignatures_PrefersPathAndStepName(t *testing.T) {
	sigs := failureSignatures([]failureRunView{
		{
			WorkflowName: "CI",
			WorkflowPath: ".github/workflows/ci.yml",
			Jobs: []jobView{
				{Name: "build", FailedStepName: "go test"},
				{Name: "lint"},
			},
		},
	})
	require.Equal(t, []string{
		".github/workflows/ci.yml::go test",
		".github/workflows/ci.yml::lint",
	}, sigs)
}

func TestContribution_ClampsAndZeroesNonPositiveCap(t *testing.T) {
	require.Equal(t, 0.0, contribution(5, 0, 10))
	require.Equal(t, 10.0, contribution(100, 10, 10))
	require.Equal(t, 5.0, contribution(5, 10, 10))
}
