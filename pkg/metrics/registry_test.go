package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistry_LazyInitializesEachCategoryOnce(t *testing.T) {
	r := NewMetricsRegistry("sentinel_eye_test_" + t.Name())

	e1 := r.Engine()
	e2 := r.Engine()
	require.Same(t, e1, e2)

	s1 := r.Scheduler()
	s2 := r.Scheduler()
	require.Same(t, s1, s2)

	h1 := r.HTTP()
	h2 := r.HTTP()
	require.Same(t, h1, h2)
}

func TestNewMetricsRegistry_DefaultsNamespace(t *testing.T) {
	r := NewMetricsRegistry("")
	require.Equal(t, "sentinel_eye", r.Namespace())
}
