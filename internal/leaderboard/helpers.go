package leaderboard

import ws "github.com/quizplanet/quiz-planet/pkg/http/ws"

func toWSEntries(entries []Entry) []ws.LeaderboardEntry {
	result := make([]ws.LeaderboardEntry, len(entries))
	for i, e := range entries {
		result[i] = ws.LeaderboardEntry{
			Rank:  i + 1,
			Name:  e.Name,
			Score: e.Score,
			Games: e.Games,
		}
	}
	return result
}
