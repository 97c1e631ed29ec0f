package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Scale_partitionsPercentRange(t *testing.T) {
	// every integer percentage in [0,100] must match exactly one band
	for pct := 0; pct <= 100; pct++ {
		matches := 0
		for _, band := range Scale {
			if pct >= band.Min && pct <= band.Max {
				matches++
			}
		}
		assert.Equalf(t, 1, matches, "percentage %d matched %d bands", pct, matches)
	}
}

func Test_BandFor(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		wantGrade  string
		wantPoints float64
	}{
		{"top of scale", 100, "A", 5.0},
		{"A lower bound", 80, "A", 5.0},
		{"just below A rounds up", 79.5, "A", 5.0},
		{"B+ upper bound", 79.4, "B+", 4.5},
		{"B band", 74, "B", 4.0},
		{"B rounds down", 74.4, "B", 4.0},
		{"B+ rounds up", 74.5, "B+", 4.5},
		{"marginal pass", 50, "D", 2.0},
		{"conditional", 40, "E", 1.0},
		{"fail band top", 39, "F", 0.0},
		{"zero", 0, "F", 0.0},
		{"negative falls open to F", -5, "F", 0.0},
		{"over 100 falls open to F", 150, "F", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := BandFor(tt.percentage)
			assert.Equal(t, tt.wantGrade, band.Grade)
			assert.Equal(t, tt.wantPoints, band.Points)
		})
	}
}

func Test_BandFor_nonFinite(t *testing.T) {
	assert.Equal(t, "F", BandFor(math.NaN()).Grade)
	assert.Equal(t, "F", BandFor(math.Inf(1)).Grade)
	assert.Equal(t, "F", BandFor(math.Inf(-1)).Grade)
}

func Test_BandOf(t *testing.T) {
	band, ok := BandOf("B+")
	assert.True(t, ok)
	assert.Equal(t, 4.5, band.Points)

	_, ok = BandOf("Z")
	assert.False(t, ok)
}
