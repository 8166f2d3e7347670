package ingestion

import (
	"errors"

	"nba-matchup-lab/internal/domain"
)

// ErrInvalidOrdering is returned when records are not properly ordered.
var ErrInvalidOrdering = errors.New("records are not in deterministic order")

// ValidateGameRecordOrdering checks that records are strictly ordered by
// (team_id ASC, game_date ASC, game_id ASC).
// Returns ErrInvalidOrdering if not.
func ValidateGameRecordOrdering(records []*domain.GameRecord) error {
	for i := 1; i < len(records); i++ {
		if domain.CompareGameRecords(records[i-1], records[i]) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}
