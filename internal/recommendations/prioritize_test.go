package recommendations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, p Priority, e, perf, c float64) Recommendation {
	return Recommendation{
		ID:       id,
		Priority: p,
		Impact:   Impact{EnergyEfficiency: e, Performance: perf, Compliance: c},
	}
}

func TestPriorityScore(t *testing.T) {
	cases := []struct {
		name string
		rec  Recommendation
		want float64
	}{
		{"critical", rec("a", PriorityCritical, 30, 60, 90), 240},
		{"high", rec("b", PriorityHigh, 10, 20, 30), 60},
		{"medium", rec("c", PriorityMedium, 50, 50, 50), 100},
		{"low", rec("d", PriorityLow, 90, 90, 90), 90},
		{"unknown", rec("e", Priority("other"), 90, 90, 90), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, PriorityScore(tc.rec), 1e-9)
		})
	}
}

func TestPrioritizeSortsDescending(t *testing.T) {
	in := []Recommendation{
		rec("low", PriorityLow, 90, 90, 90),
		rec("critical", PriorityCritical, 30, 60, 90),
		rec("medium", PriorityMedium, 50, 50, 50),
	}

	out := Prioritize(in)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"critical", "medium", "low"}, ids(out))
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, PriorityScore(out[i-1]), PriorityScore(out[i]))
	}
	assert.Equal(t, "low", in[0].ID, "input must not be reordered")
}

func TestPrioritizeIsStable(t *testing.T) {
	in := []Recommendation{
		rec("first", PriorityHigh, 40, 40, 40),
		rec("top", PriorityCritical, 100, 100, 100),
		rec("second", PriorityMedium, 60, 60, 60),
		rec("third", PriorityLow, 100, 100, 100),
		rec("fourth", PriorityHigh, 20, 40, 60),
	}

	out := Prioritize(in)

	assert.Equal(t, []string{"top", "first", "second", "fourth", "third"}, ids(out))
}

func TestPrioritizeEmpty(t *testing.T) {
	assert.Empty(t, Prioritize(nil))
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
