package metricity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRhythmicalStrataToIndispensability(t *testing.T) {
	tests := []struct {
		strata []int
		want   []int
	}{
		{[]int{2, 3}, []int{5, 0, 3, 1, 4, 2}},
		{[]int{3, 2}, []int{5, 0, 2, 4, 1, 3}},
		{[]int{2, 2, 2}, []int{7, 0, 4, 2, 6, 1, 5, 3}},
		{[]int{5}, []int{4, 0, 3, 1, 2}},
		{[]int{7}, []int{6, 0, 4, 2, 5, 1, 3}},
		{[]int{2, 5}, []int{9, 0, 5, 3, 8, 1, 6, 2, 7, 4}},
		{[]int{13}, []int{12, 0, 7, 4, 10, 1, 8, 5, 11, 2, 9, 3, 6}},
	}
	for _, tt := range tests {
		got, err := RhythmicalStrataToIndispensability(tt.strata)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "strata %v", tt.strata)
	}
}

func TestInvalidStrata(t *testing.T) {
	_, err := RhythmicalStrataToIndispensability(nil)
	assert.ErrorIs(t, err, ErrInvalidStrata)
	_, err = RhythmicalStrataToIndispensability([]int{4})
	assert.ErrorIs(t, err, ErrInvalidStrata)
}

func TestMetricities(t *testing.T) {
	m, err := Metricities([]int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2.0 / 3, 1.0 / 3}, m)
}
