package marking

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	eta := []float64{1, 4, 2, 0, 3}
	tests := []struct {
		theta float64
		want  []int
	}{
		{-1, nil},
		{0, nil},
		{0.1, []int{1}},
		{0.4, []int{1}},
		{0.41, []int{1, 4}},
		{0.7, []int{1, 4}},
		{0.71, []int{1, 2, 4}},
		{0.95, []int{0, 1, 2, 4}},
		{1, []int{0, 1, 2, 4}},
		{3, []int{0, 1, 2, 4}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("theta=%g", tc.theta), func(t *testing.T) {
			got := Mark(eta, tc.theta)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMarkTieBreakByIndex(t *testing.T) {
	eta := []float64{2, 1, 2, 2, 1}
	assert.Equal(t, []int{0}, Mark(eta, 0.2))
	assert.Equal(t, []int{0, 2}, Mark(eta, 0.3))
	assert.Equal(t, []int{0, 1, 2, 3}, Mark(eta, 0.8))
}

func TestMarkSumsIndicators(t *testing.T) {
	// a squared mass criterion would stop after the first cell
	eta := []float64{2, 1, 1, 1, 1}
	assert.Equal(t, []int{0, 1}, Mark(eta, 0.5))
}

func TestMarkDegenerate(t *testing.T) {
	assert.Empty(t, Mark(make([]float64, 10), 0.5))
	assert.Empty(t, Mark(make([]float64, 10), 1))
	assert.Empty(t, Mark(nil, 0.5))
	assert.Equal(t, []int{2}, Mark([]float64{math.NaN(), -1, 0.5, math.Inf(1)}, 0.5))
}

func TestMarkMonotoneInTheta(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	eta := make([]float64, 200)
	for k := range eta {
		eta[k] = rnd.ExpFloat64()
		if k%17 == 0 {
			eta[k] = 0
		}
	}
	var (
		prev  []int
		total float64
	)
	for _, v := range eta {
		total += v
	}
	for theta := 0.; theta <= 1.0001; theta += 0.05 {
		marked := Mark(eta, theta)
		assert.GreaterOrEqual(t, len(marked), len(prev))
		assert.True(t, sort.IntsAreSorted(marked))
		seen := map[int]bool{}
		var sum float64
		for _, k := range marked {
			require.False(t, seen[k])
			seen[k] = true
			sum += eta[k]
		}
		assert.GreaterOrEqual(t, sum, math.Min(theta, 1)*total*(1-1e-12))
		// minimality: dropping the smallest marked value falls below the target
		if len(marked) > 0 && theta < 1 {
			smallest := math.Inf(1)
			for _, k := range marked {
				smallest = math.Min(smallest, eta[k])
			}
			assert.Less(t, sum-smallest, theta*total)
		}
		prev = marked
	}
	assert.Len(t, Mark(eta, 1), 200-12)
}

func TestMarkWith(t *testing.T) {
	eta := []float64{1, 4, 2, 0, 3}
	marked, err := MarkWith(Bulk, eta, 0.5)
	require.NoError(t, err)
	assert.Equal(t, Mark(eta, 0.5), marked)

	marked, err = MarkWith(Maximum, eta, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, marked)
	marked, err = MarkWith(Maximum, eta, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, marked)
	marked, err = MarkWith(Maximum, eta, 0)
	require.NoError(t, err)
	assert.Empty(t, marked)

	marked, err = MarkWith(Uniform, eta, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, marked)

	_, err = MarkWith(Strategy(7), eta, 0.5)
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{Bulk, Maximum, Uniform} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("random")
	assert.Error(t, err)
	var s Strategy
	require.NoError(t, s.UnmarshalText([]byte(" Maximum ")))
	assert.Equal(t, Maximum, s)
	_, err = Strategy(4).MarshalText()
	assert.Error(t, err)
}
