package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryTeamScoreAndPercentage(t *testing.T) {
	// 30 of 40 correct: 75% lands in the second bucket.
	s := NewSummary("Ann", 16, "Bo", 14)

	assert.Equal(t, 30, s.TeamScore)
	assert.Equal(t, 40, s.MaxTeamScore)
	assert.Equal(t, 75, s.Percentage)
	assert.Equal(t, "Amazing Teamwork!", s.Title)
	assert.Equal(t, 4, s.Stars)
}

func TestSummaryBuckets(t *testing.T) {
	cases := []struct {
		name   string
		score1 int
		score2 int
		pct    int
		title  string
	}{
		{"legendary", 20, 16, 90, "Legendary Team!"},
		{"amazing", 15, 15, 75, "Amazing Teamwork!"},
		{"great", 12, 12, 60, "Great Job!"},
		{"good", 8, 8, 40, "Good Effort!"},
		{"practice", 3, 4, 18, "Keep Practicing!"},
		{"zero", 0, 0, 0, "Keep Practicing!"},
		{"perfect", 20, 20, 100, "Legendary Team!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSummary("Ann", tc.score1, "Bo", tc.score2)
			assert.Equal(t, tc.pct, s.Percentage)
			assert.Equal(t, tc.title, s.Title)
		})
	}
}

func TestSummaryStars(t *testing.T) {
	assert.Equal(t, 0, NewSummary("a", 0, "b", 0).Stars)
	assert.Equal(t, 1, NewSummary("a", 0, "b", 1).Stars) // 3% rounds to one star
	assert.Equal(t, 5, NewSummary("a", 20, "b", 20).Stars)
}
