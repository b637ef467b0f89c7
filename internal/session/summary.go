package session

import "math"

// PlayerResult is one seat's final line on the results screen.
type PlayerResult struct {
	Name  string
	Score int
}

// Summary captures the end-of-session results, computed deterministically
// from the two confirmed scores.
type Summary struct {
	Player1      PlayerResult
	Player2      PlayerResult
	TeamScore    int
	MaxTeamScore int
	Percentage   int
	Title        string
	Subtitle     string
	Stars        int
}

// NewSummary aggregates both players' confirmed scores into the team result.
func NewSummary(name1 string, score1 int, name2 string, score2 int) Summary {
	team := score1 + score2
	pct := int(math.Round(float64(team) / float64(MaxTeamScore) * 100))
	title, subtitle := performanceBucket(pct)
	return Summary{
		Player1:      PlayerResult{Name: name1, Score: score1},
		Player2:      PlayerResult{Name: name2, Score: score2},
		TeamScore:    team,
		MaxTeamScore: MaxTeamScore,
		Percentage:   pct,
		Title:        title,
		Subtitle:     subtitle,
		Stars:        (pct + 19) / 20,
	}
}

func performanceBucket(pct int) (title, subtitle string) {
	switch {
	case pct >= 90:
		return "Legendary Team!", "You two are unstoppable quiz champions!"
	case pct >= 75:
		return "Amazing Teamwork!", "Outstanding performance, you crushed it!"
	case pct >= 60:
		return "Great Job!", "Solid teamwork! Keep practicing together."
	case pct >= 40:
		return "Good Effort!", "Not bad! Try again to beat your score."
	default:
		return "Keep Practicing!", "Every quiz makes you smarter. Try again!"
	}
}
