package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Deep Learning Survey", "A Survey of Deep Learning", 0.6},
		{"Deep Learning Survey", "deep learning survey", 1.0},
		{"Deep-Learning: a survey!", "deep learning a survey", 1.0},
		{"Climate data", "Protein folding", 0.0},
		{"", "", 1.0},
		{"", "Anything", 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TitleSimilarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestSetSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, SetSimilarity([]string{"Smith, J"}, []string{" smith,  j "}))
	assert.Equal(t, 0.5, SetSimilarity([]string{"a", "b"}, []string{"A"}))
	assert.Equal(t, 0.0, SetSimilarity([]string{"a"}, nil))
	assert.Equal(t, 1.0, SetSimilarity(nil, []string{"", "  "}))
}

func TestDateSimilarity(t *testing.T) {
	d := date("2020-01-01")
	assert.Equal(t, 1.0, DateSimilarity(d, d, 365))
	assert.InDelta(t, 1-31.0/365, DateSimilarity(d, date("2020-02-01"), 365), 1e-9)
	assert.InDelta(t, 1-31.0/365, DateSimilarity(date("2020-02-01"), d, 365), 1e-9)
	assert.Equal(t, 0.0, DateSimilarity(d, date("2022-01-01"), 365))
	assert.InDelta(t, 0.5, DateSimilarity(d, date("2020-01-06"), 10), 1e-9)
	assert.Equal(t, 0.0, DateSimilarity(d, date("2020-01-02"), 0))
}

func TestPairwiseMean(t *testing.T) {
	// Pairs (0,1) (0,2) (1,2) score 0, 1 and 2.
	got := pairwiseMean(3, func(i, j int) float64 { return float64(i + j - 1) })
	assert.InDelta(t, 1.0, got, 1e-9)
	assert.Equal(t, 1.0, pairwiseMean(1, func(int, int) float64 { return 0 }))
}
