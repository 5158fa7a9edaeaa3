package domain

import "sort"

// SortLeaderboard orders results into leaderboard order: score descending,
// then timeTaken ascending (faster time wins ties). Full ties keep their
// existing relative order, so callers should pass results in createdAt order.
func SortLeaderboard(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].TimeTaken < results[j].TimeTaken
	})
}

// Rank returns the 1-based position of the result with the given id within a
// leaderboard-ordered slice, or 0 when absent. Results are matched by
// identity, not by score, so exact ties between students resolve correctly.
func Rank(board []Result, resultID string) int {
	for i := range board {
		if board[i].ID == resultID {
			return i + 1
		}
	}
	return 0
}
