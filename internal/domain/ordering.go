package domain

import "sort"

// SortGameRecords orders records by (team_id ASC, game_date ASC, game_id ASC).
// The sort is stable so exact duplicates keep their input order.
func SortGameRecords(records []*GameRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return CompareGameRecords(records[i], records[j]) < 0
	})
}

// CompareGameRecords returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func CompareGameRecords(a, b *GameRecord) int {
	if a.TeamID != b.TeamID {
		if a.TeamID < b.TeamID {
			return -1
		}
		return 1
	}
	if !a.GameDate.Equal(b.GameDate) {
		if a.GameDate.Before(b.GameDate) {
			return -1
		}
		return 1
	}
	if a.GameID != b.GameID {
		if a.GameID < b.GameID {
			return -1
		}
		return 1
	}
	return 0
}
